package eval

import (
	"fmt"

	"src.numbox.dev/pkg/diag"
	"src.numbox.dev/pkg/parse"
)

// Types of errors reported by Interpret, in addition to "parse error" from
// the parser.
const (
	NameError      = "name error"
	DimensionError = "dimension error"
	ImportError    = "import error"
	RuntimeError   = "runtime error"
)

func newError(src parse.Source, r diag.Ranger, typ string, cause error, format string, args ...any) *diag.Error {
	return &diag.Error{
		Type:    typ,
		Message: fmt.Sprintf(format, args...),
		Context: *diag.NewContext(src.Name, src.Code, r),
		Cause:   cause,
	}
}
