package diag

import (
	"errors"
	"strings"
	"testing"
)

var errCause = errors.New("cause")

func TestError(t *testing.T) {
	err := &Error{
		Type:    "name error",
		Message: "unknown identifier 'foo'",
		Context: *contextFromCode("1 + <foo>"),
		Cause:   errCause,
	}

	wantError := "name error: [test]:1:5: unknown identifier 'foo'"
	if s := err.Error(); s != wantError {
		t.Errorf("Error() -> %q, want %q", s, wantError)
	}
	if r := err.Range(); r != (Ranging{4, 7}) {
		t.Errorf("Range() -> %v", r)
	}
	if !errors.Is(err, errCause) {
		t.Errorf("errors.Is(err, errCause) -> false")
	}

	wantPlain := "Name error: unknown identifier 'foo'\n" +
		"  [test], line 1:\n" +
		"  1 + foo\n" +
		"      ^^^"
	if s := err.ShowPlain(""); s != wantPlain {
		t.Errorf("ShowPlain() -> %q, want %q", s, wantPlain)
	}

	show := err.Show("")
	if !strings.HasPrefix(show, "Name error: \033[31;1munknown identifier 'foo'\033[m\n") {
		t.Errorf("Show() -> %q", show)
	}
}
