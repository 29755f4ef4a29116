package diag

import (
	"errors"
	"fmt"
	"io"
)

// ShowError shows an error. It uses the Show method if the error implements
// Shower, and uses Complain to print the error message otherwise.
func ShowError(w io.Writer, err error) {
	var shower Shower
	if errors.As(err, &shower) {
		fmt.Fprintln(w, shower.Show(""))
	} else {
		Complain(w, err.Error())
	}
}

// Format returns the human-readable form of err. When color is true, it is
// the same text ShowError writes; otherwise no SGR sequences are used.
func Format(err error, color bool) string {
	if color {
		var shower Shower
		if errors.As(err, &shower) {
			return shower.Show("")
		}
		return "\033[31;1m" + err.Error() + "\033[m"
	}
	var shower PlainShower
	if errors.As(err, &shower) {
		return shower.ShowPlain("")
	}
	return err.Error()
}

// Complain prints a message to w in bold and red, adding a trailing newline.
func Complain(w io.Writer, msg string) {
	fmt.Fprintf(w, "\033[31;1m%s\033[m\n", msg)
}

// Complainf is like Complain, but accepts a format string and arguments.
func Complainf(w io.Writer, format string, args ...any) {
	Complain(w, fmt.Sprintf(format, args...))
}
