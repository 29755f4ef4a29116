package ui

// Styling specifies how to change a Style. It can also be applied to a Segment
// or Text.
type Styling interface{ transform(*Style) }

// StyleText returns a new Text with the given Styling's applied. It does not
// modify the given Text.
func StyleText(t Text, ts ...Styling) Text {
	newt := make(Text, len(t))
	for i, seg := range t {
		newt[i] = &Segment{Text: seg.Text, Style: ApplyStyling(seg.Style, ts...)}
	}
	return newt
}

// ApplyStyling returns a new Style with the given Styling's applied.
func ApplyStyling(s Style, ts ...Styling) Style {
	for _, t := range ts {
		if t != nil {
			t.transform(&s)
		}
	}
	return s
}

// Stylings joins several transformers into one.
func Stylings(ts ...Styling) Styling { return jointStyling(ts) }

// Common stylings.
var (
	FgRed     Styling = setForeground{Red}
	FgGreen   Styling = setForeground{Green}
	FgYellow  Styling = setForeground{Yellow}
	FgBlue    Styling = setForeground{Blue}
	FgMagenta Styling = setForeground{Magenta}
	FgCyan    Styling = setForeground{Cyan}

	FgBrightBlack Styling = setForeground{BrightBlack}

	Bold       Styling = boolOn(boldField)
	Dim        Styling = boolOn(dimField)
	Italic     Styling = boolOn(italicField)
	Underlined Styling = boolOn(underlinedField)
)

// BgOf returns a Styling that sets the background color.
func BgOf(c Color) Styling { return setBackground{c} }

type setForeground struct{ c Color }
type setBackground struct{ c Color }
type boolOn boolField
type jointStyling []Styling

func (t setForeground) transform(s *Style) { s.Fg = t.c }
func (t setBackground) transform(s *Style) { s.Bg = t.c }
func (t boolOn) transform(s *Style)        { *boolField(t).get(s) = true }

func (t jointStyling) transform(s *Style) {
	for _, t := range t {
		t.transform(s)
	}
}

type boolField int

const (
	boldField boolField = iota
	dimField
	italicField
	underlinedField
)

func (f boolField) get(s *Style) *bool {
	switch f {
	case boldField:
		return &s.Bold
	case dimField:
		return &s.Dim
	case italicField:
		return &s.Italic
	case underlinedField:
		return &s.Underlined
	default:
		panic("unreachable")
	}
}
