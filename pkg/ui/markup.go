package ui

// Stylings of the format types used when rendering statements and results.
var (
	stylingOperator       = FgYellow
	stylingValue          = FgCyan
	stylingUnit           = FgGreen
	stylingIdentifier     Styling
	stylingTypeIdentifier = Stylings(FgBlue, Italic)
	stylingKeyword        = Stylings(FgMagenta, Bold)
	stylingDimmed         = Dim
)

// Plain returns unstyled text.
func Plain(s string) Text { return T(s) }

// Operator returns text styled as an operator.
func Operator(s string) Text { return T(s, stylingOperator) }

// Value returns text styled as a numeric value.
func Value(s string) Text { return T(s, stylingValue) }

// Unit returns text styled as a unit.
func Unit(s string) Text { return T(s, stylingUnit) }

// Identifier returns text styled as an identifier.
func Identifier(s string) Text { return T(s, stylingIdentifier) }

// TypeIdentifier returns text styled as a dimension name.
func TypeIdentifier(s string) Text { return T(s, stylingTypeIdentifier) }

// Keyword returns text styled as a keyword.
func Keyword(s string) Text { return T(s, stylingKeyword) }

// Dimmed returns dimmed text.
func Dimmed(s string) Text { return T(s, stylingDimmed) }
