package quant

import (
	"fmt"
	"strings"
)

// DimensionRegistry names dimensions. It is immutable: the With* methods
// return a new registry sharing nothing mutable with the receiver, so a
// registry may be read concurrently and kept around as a snapshot.
type DimensionRegistry struct {
	base    []string
	derived []namedDim
}

type namedDim struct {
	name string
	dim  Dim
}

// NewDimensionRegistry returns an empty registry.
func NewDimensionRegistry() *DimensionRegistry { return &DimensionRegistry{} }

// WithBase returns a registry with name defined as a base dimension. An
// earlier definition of name is replaced; redefining a base dimension as a
// base dimension returns r itself.
func (r *DimensionRegistry) WithBase(name string) *DimensionRegistry {
	if r.isBase(name) {
		return r
	}
	r = r.without(name)
	return &DimensionRegistry{
		base:    append(r.base[:len(r.base):len(r.base)], name),
		derived: r.derived,
	}
}

// WithDerived returns a registry with name defined as an alias of dim. An
// earlier definition of name is replaced. Redefining a derived dimension
// with an equal Dim returns r itself, so that a module can be loaded into a
// context that already knows some of its dimensions.
//
// Dims are products of base dimension names, so values and units that were
// defined in terms of a replaced base dimension keep their dimension.
func (r *DimensionRegistry) WithDerived(name string, dim Dim) *DimensionRegistry {
	if old, ok := r.Lookup(name); ok && old.Equal(dim) && !r.isBase(name) {
		return r
	}
	r = r.without(name)
	return &DimensionRegistry{
		base:    r.base,
		derived: append(r.derived[:len(r.derived):len(r.derived)], namedDim{name, dim}),
	}
}

// Returns a registry without any definition of name.
func (r *DimensionRegistry) without(name string) *DimensionRegistry {
	if _, ok := r.Lookup(name); !ok {
		return r
	}
	res := &DimensionRegistry{}
	for _, b := range r.base {
		if b != name {
			res.base = append(res.base, b)
		}
	}
	for _, d := range r.derived {
		if d.name != name {
			res.derived = append(res.derived, d)
		}
	}
	return res
}

func (r *DimensionRegistry) isBase(name string) bool {
	for _, b := range r.base {
		if b == name {
			return true
		}
	}
	return false
}

// Lookup returns the Dim with the given name.
func (r *DimensionRegistry) Lookup(name string) (Dim, bool) {
	if r.isBase(name) {
		return BaseDim(name), true
	}
	for _, d := range r.derived {
		if d.name == name {
			return d.dim, true
		}
	}
	return nil, false
}

// Names returns the names of all dimensions, base dimensions first, each
// group in definition order.
func (r *DimensionRegistry) Names() []string {
	names := make([]string, 0, len(r.base)+len(r.derived))
	names = append(names, r.base...)
	for _, d := range r.derived {
		names = append(names, d.name)
	}
	return names
}

// NameOf returns the name of dim, preferring base dimensions and then the
// earliest-defined derived dimension.
func (r *DimensionRegistry) NameOf(dim Dim) (string, bool) {
	if len(dim) == 1 {
		for name, exp := range dim {
			if exp == 1 && r.isBase(name) {
				return name, true
			}
		}
	}
	for _, d := range r.derived {
		if d.dim.Equal(dim) {
			return d.name, true
		}
	}
	return "", false
}

// Format returns a human-readable form of dim: its name if it has one, and
// otherwise a product of base dimensions like "Length × Mass / Time^2".
func (r *DimensionRegistry) Format(dim Dim) string {
	if dim.IsScalar() {
		return "Scalar"
	}
	if name, ok := r.NameOf(dim); ok {
		return name
	}
	var num, den []string
	for _, name := range r.orderedNames(dim) {
		exp := dim[name]
		switch {
		case exp > 0:
			num = append(num, powString(name, exp))
		case exp < 0:
			den = append(den, powString(name, -exp))
		}
	}
	s := strings.Join(num, " × ")
	if s == "" {
		s = "1"
	}
	if len(den) > 0 {
		s += " / " + strings.Join(den, " × ")
	}
	return s
}

// orderedNames returns the base dimension names of dim, in registry order
// first and then any unknown names in lexical order.
func (r *DimensionRegistry) orderedNames(dim Dim) []string {
	var names []string
	seen := make(map[string]bool)
	for _, b := range r.base {
		if _, ok := dim[b]; ok {
			names = append(names, b)
			seen[b] = true
		}
	}
	for _, name := range dim.sortedNames() {
		if !seen[name] {
			names = append(names, name)
		}
	}
	return names
}

func powString(name string, exp int) string {
	if exp == 1 {
		return name
	}
	return fmt.Sprintf("%s^%d", name, exp)
}
