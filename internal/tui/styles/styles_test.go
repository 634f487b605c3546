package styles

import (
	"strings"
	"testing"
)

func TestStatusItem(t *testing.T) {
	got := StatusItem("#000000", "#ff9900").Render("⎇ main")
	if !strings.Contains(got, "⎇ main") {
		t.Errorf("StatusItem().Render() = %q, want the text preserved", got)
	}

	plain := StatusItem("", "").Render("x")
	if !strings.Contains(plain, "x") {
		t.Errorf("StatusItem without colors = %q", plain)
	}
}

func TestColorSwatch(t *testing.T) {
	if got := ColorSwatch("#123456"); !strings.Contains(got, "#123456") {
		t.Errorf("ColorSwatch() = %q, want value included", got)
	}
	if got := ColorSwatch(""); !strings.Contains(got, "-") {
		t.Errorf("ColorSwatch(\"\") = %q, want placeholder", got)
	}
}
