// Package rules maps a branch name to a color set.
//
// Rules are evaluated in order and the first one whose pattern matches the
// branch (an unanchored search using JavaScript RegExp syntax, so lookaheads
// and backreferences work) wins. A rule whose pattern does not compile, or
// whose match runs past MatchTimeout, never matches and never stops
// evaluation. The matched
// rule, or its absence, is then resolved against the default colors one
// slot at a time: slot-specific field, generic bg/fg, default.
//
// Everything here is pure. Colors are opaque strings passed through as
// configured.
package rules
