// Package logging provides structured logging for branchtint.
//
// It wraps Go's log/slog to write JSON lines to a size-rotated file in the
// branchtint config directory, or to stderr when no directory is given.
// Child loggers carry persistent attributes (component, repository, branch)
// so a long-running watch session can be filtered after the fact.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(config.ConfigDir(), "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.WithComponent("watcher").Info("watching repository", "root", root)
//
// All types in this package are safe for concurrent use.
package logging
