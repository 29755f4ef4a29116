// Package ui contains the styled text type used to render statements, results
// and errors.
package ui

import (
	"strings"
)

// Text contains of a list of styled Segments.
type Text []*Segment

// Segment is a string that has some style applied to it.
type Segment struct {
	Style
	Text string
}

// T constructs a new Text with the given content and the given Styling's
// applied.
func T(s string, ts ...Styling) Text {
	return StyleText(Text{&Segment{Text: s}}, ts...)
}

// Concat returns a new Text with the content of all the arguments.
func Concat(ts ...Text) Text {
	var newt Text
	for _, t := range ts {
		newt = append(newt, t...)
	}
	return newt
}

// Join joins the texts with the given separator.
func Join(sep Text, ts ...Text) Text {
	var newt Text
	for i, t := range ts {
		if i > 0 {
			newt = append(newt, sep...)
		}
		newt = append(newt, t...)
	}
	return newt
}

// IsEmpty reports whether the Text has no visible content.
func (t Text) IsEmpty() bool {
	for _, seg := range t {
		if seg.Text != "" {
			return false
		}
	}
	return true
}

// String returns the text without any styling.
func (t Text) String() string {
	var sb strings.Builder
	for _, seg := range t {
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// VTString renders the styled text using VT-style escape sequences. Any
// existing SGR state will be cleared.
func (t Text) VTString() string {
	var sb strings.Builder
	clean := false
	for _, seg := range t {
		sgr := seg.SGR()
		if sgr == "" {
			if !clean {
				sb.WriteString("\033[m")
			}
			clean = true
		} else {
			if clean {
				sb.WriteString("\033[" + sgr + "m")
			} else {
				sb.WriteString("\033[;" + sgr + "m")
			}
			clean = false
		}
		sb.WriteString(seg.Text)
	}
	if !clean {
		sb.WriteString("\033[m")
	}
	return sb.String()
}

// Render returns VTString when color is true, and String otherwise.
func (t Text) Render(color bool) string {
	if color {
		return t.VTString()
	}
	return t.String()
}
