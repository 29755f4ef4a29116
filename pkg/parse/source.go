package parse

import "fmt"

// Provenance records where a piece of source code came from.
type Provenance int

// Possible values of Provenance.
const (
	// Text is code typed or submitted by the user.
	Text Provenance = iota
	// Internal is code the program itself submits, like the prelude import.
	Internal
	// Module is the content of a module loaded by a use statement.
	Module
)

func (p Provenance) String() string {
	switch p {
	case Text:
		return "text"
	case Internal:
		return "internal"
	case Module:
		return "module"
	default:
		return fmt.Sprintf("provenance(%d)", int(p))
	}
}

// Source describes a piece of source code.
type Source struct {
	Name       string
	Code       string
	Provenance Provenance
}

// SourceForText returns a Source for user-submitted code.
func SourceForText(name, code string) Source {
	return Source{Name: name, Code: code, Provenance: Text}
}
