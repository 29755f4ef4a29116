package diag

import (
	"errors"
	"strings"
	"testing"
)

func TestShowError_Shower(t *testing.T) {
	err := &Error{Type: "parse error", Message: "bad", Context: *contextFromCode("<x>")}
	var sb strings.Builder
	ShowError(&sb, err)
	if want := err.Show("") + "\n"; sb.String() != want {
		t.Errorf("got %q, want %q", sb.String(), want)
	}
}

func TestShowError_PlainError(t *testing.T) {
	var sb strings.Builder
	ShowError(&sb, errors.New("some error"))
	if want := "\033[31;1msome error\033[m\n"; sb.String() != want {
		t.Errorf("got %q, want %q", sb.String(), want)
	}
}

func TestFormat(t *testing.T) {
	err := &Error{Type: "parse error", Message: "bad", Context: *contextFromCode("<x>")}
	if got, want := Format(err, false), err.ShowPlain(""); got != want {
		t.Errorf("Format(err, false) -> %q, want %q", got, want)
	}
	if got, want := Format(err, true), err.Show(""); got != want {
		t.Errorf("Format(err, true) -> %q, want %q", got, want)
	}
	if got := Format(errors.New("x"), false); got != "x" {
		t.Errorf("Format(plain, false) -> %q", got)
	}
}

func TestComplainf(t *testing.T) {
	var sb strings.Builder
	Complainf(&sb, "%d errors", 2)
	if want := "\033[31;1m2 errors\033[m\n"; sb.String() != want {
		t.Errorf("got %q, want %q", sb.String(), want)
	}
}
