package quant

import (
	"errors"
	"fmt"
	"math"
)

// Quantity is a number with a unit.
type Quantity struct {
	Value float64
	Unit  Unit
}

// Scalar returns a dimensionless quantity.
func Scalar(v float64) Quantity { return Quantity{Value: v} }

// DimensionError is returned when an operation is applied to quantities of
// incompatible dimensions.
type DimensionError struct {
	// Op describes the operation, like "addition" or "conversion".
	Op    string
	Left  Dim
	Right Dim
}

func (e *DimensionError) Error() string {
	return e.Describe(NewDimensionRegistry())
}

// Describe returns the error message, naming dimensions with the registry.
func (e *DimensionError) Describe(r *DimensionRegistry) string {
	return fmt.Sprintf("incompatible dimensions in %s: %s vs %s",
		e.Op, r.Format(e.Left), r.Format(e.Right))
}

// ErrNonIntegerPower is returned when a quantity with a unit is raised to a
// power that would produce a non-integer unit exponent.
var ErrNonIntegerPower = errors.New("exponent must be an integer for quantities with units")

// Arith performs arithmetic on quantities using a unit table.
type Arith struct {
	Units UnitTable
}

func (a Arith) dimOf(q Quantity) (Dim, error) { return a.Units.DimOf(q.Unit) }

// Dim returns the dimension of q.
func (a Arith) Dim(q Quantity) (Dim, error) { return a.dimOf(q) }

// Add returns x + y, expressed in the unit of x.
func (a Arith) Add(x, y Quantity) (Quantity, error) {
	y, err := a.convertFor("addition", y, x.Unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{x.Value + y.Value, x.Unit}, nil
}

// Sub returns x - y, expressed in the unit of x.
func (a Arith) Sub(x, y Quantity) (Quantity, error) {
	y, err := a.convertFor("subtraction", y, x.Unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{x.Value - y.Value, x.Unit}, nil
}

// Mul returns x * y.
func (a Arith) Mul(x, y Quantity) Quantity {
	return Quantity{x.Value * y.Value, x.Unit.Mul(y.Unit)}
}

// Div returns x / y.
func (a Arith) Div(x, y Quantity) Quantity {
	return Quantity{x.Value / y.Value, x.Unit.Div(y.Unit)}
}

// Neg returns -x.
func (a Arith) Neg(x Quantity) Quantity {
	return Quantity{-x.Value, x.Unit}
}

// Pow returns x raised to the power y, which must be dimensionless. When x
// has a unit, y must be an integer.
func (a Arith) Pow(x, y Quantity) (Quantity, error) {
	exp, err := a.ToScalar("exponentiation", y)
	if err != nil {
		return Quantity{}, err
	}
	if x.Unit.IsScalar() {
		return Scalar(math.Pow(x.Value, exp)), nil
	}
	if exp != math.Trunc(exp) || math.Abs(exp) > math.MaxInt32 {
		return Quantity{}, ErrNonIntegerPower
	}
	return Quantity{math.Pow(x.Value, exp), x.Unit.Pow(int(exp))}, nil
}

// ToScalar converts a dimensionless quantity to a plain number, folding in
// the factors of any dimensionless units like percent.
func (a Arith) ToScalar(op string, q Quantity) (float64, error) {
	d, err := a.dimOf(q)
	if err != nil {
		return 0, err
	}
	if !d.IsScalar() {
		return 0, &DimensionError{op, nil, d}
	}
	factor, err := a.Units.Factor(q.Unit)
	if err != nil {
		return 0, err
	}
	return q.Value * factor, nil
}

// ConvertTo expresses q in the target unit.
func (a Arith) ConvertTo(q Quantity, target Unit) (Quantity, error) {
	return a.convertFor("conversion", q, target)
}

func (a Arith) convertFor(op string, q Quantity, target Unit) (Quantity, error) {
	from, err := a.dimOf(q)
	if err != nil {
		return Quantity{}, err
	}
	to, err := a.Units.DimOf(target)
	if err != nil {
		return Quantity{}, err
	}
	if !from.Equal(to) {
		return Quantity{}, &DimensionError{op, to, from}
	}
	fromFactor, err := a.Units.Factor(q.Unit)
	if err != nil {
		return Quantity{}, err
	}
	toFactor, err := a.Units.Factor(target)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{q.Value * fromFactor / toFactor, target}, nil
}
