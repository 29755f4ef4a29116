package eval

import (
	"errors"
	"fmt"
	"math"

	"src.numbox.dev/pkg/quant"
)

type builtin struct {
	arity     int
	signature string
	impl      func(a quant.Arith, args []quant.Quantity) (quant.Quantity, error)
}

var builtins = map[string]*builtin{
	"sqrt":  {1, "fn sqrt(x)", sqrt},
	"abs":   {1, "fn abs(x)", keepUnit(math.Abs)},
	"round": {1, "fn round(x)", keepUnit(math.Round)},
	"floor": {1, "fn floor(x)", keepUnit(math.Floor)},
	"ceil":  {1, "fn ceil(x)", keepUnit(math.Ceil)},
	"sin":   {1, "fn sin(x: Scalar) -> Scalar", scalarFn("sin", math.Sin)},
	"cos":   {1, "fn cos(x: Scalar) -> Scalar", scalarFn("cos", math.Cos)},
	"tan":   {1, "fn tan(x: Scalar) -> Scalar", scalarFn("tan", math.Tan)},
	"exp":   {1, "fn exp(x: Scalar) -> Scalar", scalarFn("exp", math.Exp)},
	"ln":    {1, "fn ln(x: Scalar) -> Scalar", scalarFn("ln", math.Log)},
	"log10": {1, "fn log10(x: Scalar) -> Scalar", scalarFn("log10", math.Log10)},
}

// IsBuiltin reports whether name is a built-in function.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

func keepUnit(f func(float64) float64) func(quant.Arith, []quant.Quantity) (quant.Quantity, error) {
	return func(_ quant.Arith, args []quant.Quantity) (quant.Quantity, error) {
		return quant.Quantity{Value: f(args[0].Value), Unit: args[0].Unit}, nil
	}
}

func scalarFn(name string, f func(float64) float64) func(quant.Arith, []quant.Quantity) (quant.Quantity, error) {
	return func(a quant.Arith, args []quant.Quantity) (quant.Quantity, error) {
		x, err := a.ToScalar("argument of "+name, args[0])
		if err != nil {
			return quant.Quantity{}, err
		}
		return quant.Scalar(f(x)), nil
	}
}

var errOddExponent = errors.New("cannot take the square root of a unit with odd exponents")

func sqrt(_ quant.Arith, args []quant.Quantity) (quant.Quantity, error) {
	x := args[0]
	var u quant.Unit
	for _, f := range x.Unit {
		if f.Exp%2 != 0 {
			return quant.Quantity{}, fmt.Errorf("%w: %s", errOddExponent, x.Unit)
		}
		u = append(u, quant.UnitFactor{Name: f.Name, Exp: f.Exp / 2})
	}
	return quant.Quantity{Value: math.Sqrt(x.Value), Unit: u}, nil
}
