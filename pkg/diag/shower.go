package diag

// Shower wraps the Show function.
type Shower interface {
	// Show takes an indentation string and shows.
	Show(indent string) string
}

// PlainShower wraps the ShowPlain function.
type PlainShower interface {
	// ShowPlain is like Show, but without any SGR sequences.
	ShowPlain(indent string) string
}
