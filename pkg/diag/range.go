package diag

// Ranger is implemented by AST nodes and errors that cover part of a source.
type Ranger interface {
	Range() Ranging
}

// Ranging is a half-open byte range [From, To) in a source. AST nodes embed
// it to implement [Ranger].
type Ranging struct {
	From int
	To   int
}

func (r Ranging) Range() Ranging { return r }

// PointRanging returns an empty Ranging at p, used for errors at the end of
// input.
func PointRanging(p int) Ranging { return Ranging{p, p} }

// MixedRanging spans from the start of a to the end of b.
func MixedRanging(a, b Ranger) Ranging {
	return Ranging{a.Range().From, b.Range().To}
}
