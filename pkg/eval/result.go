package eval

import (
	"unicode/utf8"

	"src.numbox.dev/pkg/parse"
	"src.numbox.dev/pkg/quant"
	"src.numbox.dev/pkg/ui"
)

// Result is the outcome of the last statement of an evaluation.
type Result struct {
	// Value is the value of an expression statement, or nil for other
	// statements.
	Value *quant.Quantity
	// Dim is the dimension of Value.
	Dim quant.Dim

	width int
}

const typeInfoSep = "    "

// Markup renders the result as "= <value> <unit>    [<Dimension>]". It
// returns nil unless subject is an expression statement and the result has
// a value. The dimension annotation is left out for dimensionless values, and
// moved to its own line when the line would not fit the terminal width in
// effect when the result was produced.
func (r Result) Markup(subject parse.Stmt, registry *quant.DimensionRegistry, withTypeInfo, withEqualSign bool) ui.Text {
	if r.Value == nil {
		return nil
	}
	if _, ok := subject.(*parse.ExprStmt); !ok {
		return nil
	}
	var t ui.Text
	if withEqualSign {
		t = ui.Concat(ui.Operator("="), ui.Plain(" "))
	}
	t = ui.Concat(t, ui.Value(quant.FormatNumber(r.Value.Value)))
	if !r.Value.Unit.IsScalar() {
		t = ui.Concat(t, ui.Plain(" "), ui.Unit(r.Value.Unit.String()))
	}
	if withTypeInfo && registry != nil && !r.Dim.IsScalar() {
		typ := registry.Format(r.Dim)
		sep := typeInfoSep
		lineWidth := utf8.RuneCountInString(t.String()) + len(sep) + utf8.RuneCountInString(typ) + 2
		if r.width > 0 && lineWidth > r.width {
			sep = "\n" + typeInfoSep
		}
		t = ui.Concat(t, ui.Plain(sep), ui.Dimmed("["), ui.TypeIdentifier(typ), ui.Dimmed("]"))
	}
	return t
}
