package diag

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Error represents an error with context that can be showed.
type Error struct {
	Type    string
	Message string
	Context Context
	// Cause is the underlying error, if any. It is exposed through Unwrap so
	// that errors.Is and errors.As see through the Error.
	Cause error
}

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Type, e.Context.Position(), e.Message)
}

// Unwrap returns the cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// Range returns the range of the error.
func (e *Error) Range() Ranging {
	return e.Context.Range()
}

// Show shows the error, highlighting the message and the culprit with SGR
// sequences.
func (e *Error) Show(indent string) string {
	header := fmt.Sprintf("%s: \033[31;1m%s\033[m\n", title(e.Type), e.Message)
	return header + indent + "  " + e.Context.Show(indent+"  ")
}

// ShowPlain shows the error without any SGR sequences.
func (e *Error) ShowPlain(indent string) string {
	header := fmt.Sprintf("%s: %s\n", title(e.Type), e.Message)
	return header + indent + "  " + e.Context.ShowPlain(indent+"  ")
}

func title(s string) string {
	if s == "" {
		return s
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[n:])
}
