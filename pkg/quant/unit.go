package quant

import (
	"fmt"
	"math"
	"strings"
)

// UnitFactor is a named unit raised to an integer power.
type UnitFactor struct {
	Name string
	Exp  int
}

// Unit is a product of unit factors, kept in the order they were first
// introduced. A nil Unit is the unit of pure numbers.
type Unit []UnitFactor

// NamedUnit returns the Unit consisting of a single named unit.
func NamedUnit(name string) Unit { return Unit{{name, 1}} }

// IsScalar reports whether u is the unit of pure numbers.
func (u Unit) IsScalar() bool { return len(u) == 0 }

// Mul returns u * v.
func (u Unit) Mul(v Unit) Unit { return u.combine(v, 1) }

// Div returns u / v.
func (u Unit) Div(v Unit) Unit { return u.combine(v, -1) }

// Pow returns u raised to an integer power.
func (u Unit) Pow(n int) Unit {
	if n == 0 {
		return nil
	}
	res := make(Unit, len(u))
	for i, f := range u {
		res[i] = UnitFactor{f.Name, f.Exp * n}
	}
	return res
}

func (u Unit) combine(v Unit, sign int) Unit {
	res := append(Unit(nil), u...)
	for _, f := range v {
		found := false
		for i := range res {
			if res[i].Name == f.Name {
				res[i].Exp += sign * f.Exp
				found = true
				break
			}
		}
		if !found {
			res = append(res, UnitFactor{f.Name, sign * f.Exp})
		}
	}
	out := res[:0]
	for _, f := range res {
		if f.Exp != 0 {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Has reports whether u has a factor with the given unit name.
func (u Unit) Has(name string) bool {
	for _, f := range u {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Rename returns u with factors named from renamed to to.
func (u Unit) Rename(from, to string) Unit {
	res := make(Unit, len(u))
	for i, f := range u {
		if f.Name == from {
			f.Name = to
		}
		res[i] = f
	}
	return res
}

// RetiredName returns the name under which the generation-th superseded
// definition of a unit is kept. Such names cannot be written in source code.
func RetiredName(name string, generation int) string {
	return fmt.Sprintf("%s%c%d", name, retiredSep, generation)
}

// IsRetired reports whether name was returned by RetiredName.
func IsRetired(name string) bool { return strings.IndexByte(name, retiredSep) >= 0 }

// DisplayName returns the name a unit was defined with, removing the suffix
// added by RetiredName.
func DisplayName(name string) string {
	if i := strings.IndexByte(name, retiredSep); i >= 0 {
		return name[:i]
	}
	return name
}

const retiredSep = '#'

// String returns the unit in a form like "kg·m^2/s^2". Retired units are
// shown with the name they were defined with.
func (u Unit) String() string {
	var num, den []string
	for _, f := range u {
		name := DisplayName(f.Name)
		if f.Exp > 0 {
			num = append(num, powString(name, f.Exp))
		} else {
			den = append(den, powString(name, -f.Exp))
		}
	}
	s := strings.Join(num, "·")
	if len(den) == 0 {
		return s
	}
	if s == "" {
		s = "1"
	}
	if len(den) == 1 {
		return s + "/" + den[0]
	}
	return s + "/(" + strings.Join(den, "·") + ")"
}

// UnitDef defines a named unit: its size relative to the base units of its
// dimension, and that dimension.
type UnitDef struct {
	Name   string
	Factor float64
	Dim    Dim
}

// UnitTable maps unit names to their definitions.
type UnitTable map[string]UnitDef

// UnknownUnitError is returned when a unit is not in the table.
type UnknownUnitError struct{ Name string }

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown unit '%s'", e.Name)
}

// Factor returns the size of u in base units.
func (t UnitTable) Factor(u Unit) (float64, error) {
	factor := 1.0
	for _, f := range u {
		def, ok := t[f.Name]
		if !ok {
			return 0, &UnknownUnitError{f.Name}
		}
		factor *= math.Pow(def.Factor, float64(f.Exp))
	}
	return factor, nil
}

// DimOf returns the dimension of u.
func (t UnitTable) DimOf(u Unit) (Dim, error) {
	var d Dim
	for _, f := range u {
		def, ok := t[f.Name]
		if !ok {
			return nil, &UnknownUnitError{f.Name}
		}
		d = d.Mul(def.Dim.Pow(f.Exp))
	}
	return d, nil
}
