// Package quant implements physical quantities: values with units, the
// dimensions of units, and the registry that names dimensions.
package quant

import (
	"maps"
	"sort"
)

// Dim is a product of powers of base dimensions, keyed by base dimension
// name. A nil or empty Dim is the dimension of pure numbers. Values of Dim are
// never modified after construction; all operations return new values.
type Dim map[string]int

// BaseDim returns the Dim of a base dimension.
func BaseDim(name string) Dim { return Dim{name: 1} }

// IsScalar reports whether d is dimensionless.
func (d Dim) IsScalar() bool { return len(d) == 0 }

// Equal reports whether two dimensions are the same.
func (d Dim) Equal(e Dim) bool { return maps.Equal(d, e) }

// Mul returns d * e.
func (d Dim) Mul(e Dim) Dim { return d.combine(e, 1) }

// Div returns d / e.
func (d Dim) Div(e Dim) Dim { return d.combine(e, -1) }

// Pow returns d raised to an integer power.
func (d Dim) Pow(n int) Dim {
	if n == 0 {
		return nil
	}
	res := make(Dim, len(d))
	for name, exp := range d {
		res[name] = exp * n
	}
	return res
}

func (d Dim) combine(e Dim, sign int) Dim {
	res := make(Dim, len(d)+len(e))
	for name, exp := range d {
		res[name] = exp
	}
	for name, exp := range e {
		if v := res[name] + sign*exp; v == 0 {
			delete(res, name)
		} else {
			res[name] = v
		}
	}
	return res
}

func (d Dim) sortedNames() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
