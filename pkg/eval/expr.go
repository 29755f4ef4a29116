package eval

import (
	"errors"

	"src.numbox.dev/pkg/diag"
	"src.numbox.dev/pkg/parse"
	"src.numbox.dev/pkg/quant"
)

// MaxCallDepth limits the nesting of user-defined function calls.
const MaxCallDepth = 256

type function struct {
	decl      *parse.FnStmt
	src       parse.Source
	paramDims []quant.Dim
	returnDim quant.Dim
}

// scope maps function parameters to their values. It is nil outside
// functions.
type scope map[string]quant.Quantity

func (c *Context) arith() quant.Arith { return quant.Arith{Units: c.units} }

func (c *Context) eval(src parse.Source, sc scope, e parse.Expr) (quant.Quantity, error) {
	switch e := e.(type) {
	case *parse.Number:
		return quant.Scalar(e.Value), nil
	case *parse.Ident:
		return c.evalIdent(src, sc, e)
	case *parse.Call:
		return c.evalCall(src, sc, e)
	case *parse.Negate:
		x, err := c.eval(src, sc, e.X)
		if err != nil {
			return quant.Quantity{}, err
		}
		return c.arith().Neg(x), nil
	case *parse.Binary:
		return c.evalBinary(src, sc, e)
	case *parse.Convert:
		return c.evalConvert(src, sc, e)
	default:
		panic("unreachable")
	}
}

func (c *Context) evalIdent(src parse.Source, sc scope, e *parse.Ident) (quant.Quantity, error) {
	if v, ok := sc[e.Name]; ok {
		return v, nil
	}
	if v, ok := c.vars[e.Name]; ok {
		return v, nil
	}
	if _, ok := c.units[e.Name]; ok {
		return quant.Quantity{Value: 1, Unit: quant.NamedUnit(e.Name)}, nil
	}
	if _, ok := c.fns[e.Name]; ok {
		return quant.Quantity{}, newError(src, e, NameError, nil,
			"'%s' is a function and must be called with arguments", e.Name)
	}
	return quant.Quantity{}, newError(src, e, NameError, nil, "unknown identifier '%s'", e.Name)
}

func (c *Context) evalBinary(src parse.Source, sc scope, e *parse.Binary) (quant.Quantity, error) {
	x, err := c.eval(src, sc, e.L)
	if err != nil {
		return quant.Quantity{}, err
	}
	y, err := c.eval(src, sc, e.R)
	if err != nil {
		return quant.Quantity{}, err
	}
	a := c.arith()
	var v quant.Quantity
	switch e.Op {
	case parse.Add:
		v, err = a.Add(x, y)
	case parse.Sub:
		v, err = a.Sub(x, y)
	case parse.Mul:
		v = a.Mul(x, y)
	case parse.Div:
		v = a.Div(x, y)
	case parse.Pow:
		v, err = a.Pow(x, y)
	}
	if err != nil {
		return quant.Quantity{}, c.arithError(src, e, err)
	}
	return v, nil
}

func (c *Context) evalConvert(src parse.Source, sc scope, e *parse.Convert) (quant.Quantity, error) {
	x, err := c.eval(src, sc, e.X)
	if err != nil {
		return quant.Quantity{}, err
	}
	target, err := c.eval(src, sc, e.Target)
	if err != nil {
		return quant.Quantity{}, err
	}
	if target.Value != 1 {
		return quant.Quantity{}, newError(src, e.Target, RuntimeError, nil,
			"conversion target must be a unit, found %s", target)
	}
	v, err := c.arith().ConvertTo(x, target.Unit)
	if err != nil {
		return quant.Quantity{}, c.arithError(src, e, err)
	}
	return v, nil
}

// arithError converts an error from quant to a diagnostic error.
func (c *Context) arithError(src parse.Source, r diag.Ranger, err error) error {
	var dimErr *quant.DimensionError
	var unitErr *quant.UnknownUnitError
	switch {
	case errors.As(err, &dimErr):
		return newError(src, r, DimensionError, err, "%s", dimErr.Describe(c.registry))
	case errors.As(err, &unitErr):
		return newError(src, r, NameError, err, "%s", err.Error())
	default:
		return newError(src, r, RuntimeError, err, "%s", err.Error())
	}
}

func (c *Context) evalCall(src parse.Source, sc scope, e *parse.Call) (quant.Quantity, error) {
	if _, ok := sc[e.Fn]; ok {
		return quant.Quantity{}, newError(src, e, NameError, nil, "'%s' is not a function", e.Fn)
	}
	if _, ok := c.vars[e.Fn]; ok {
		return quant.Quantity{}, newError(src, e, NameError, nil, "'%s' is not a function", e.Fn)
	}
	fn, isUser := c.fns[e.Fn]
	b, isBuiltin := builtins[e.Fn]
	if !isUser && !isBuiltin {
		return quant.Quantity{}, newError(src, e, NameError, nil, "unknown function '%s'", e.Fn)
	}

	args := make([]quant.Quantity, len(e.Args))
	for i, arg := range e.Args {
		v, err := c.eval(src, sc, arg)
		if err != nil {
			return quant.Quantity{}, err
		}
		args[i] = v
	}

	if isUser {
		return c.callUser(src, e, fn, args)
	}
	if len(args) != b.arity {
		return quant.Quantity{}, newError(src, e, RuntimeError, nil,
			"function %s expects %d argument(s), got %d", e.Fn, b.arity, len(args))
	}
	v, err := b.impl(c.arith(), args)
	if err != nil {
		return quant.Quantity{}, c.arithError(src, e, err)
	}
	return v, nil
}

func (c *Context) callUser(src parse.Source, e *parse.Call, fn *function, args []quant.Quantity) (quant.Quantity, error) {
	params := fn.decl.Params
	if len(args) != len(params) {
		return quant.Quantity{}, newError(src, e, RuntimeError, nil,
			"function %s expects %d argument(s), got %d", e.Fn, len(params), len(args))
	}
	sc := make(scope, len(params))
	for i, p := range params {
		if p.Dim != nil {
			got, err := c.units.DimOf(args[i].Unit)
			if err != nil {
				return quant.Quantity{}, c.unitError(src, e.Args[i], err)
			}
			if want := fn.paramDims[i]; !got.Equal(want) {
				return quant.Quantity{}, newError(src, e.Args[i], DimensionError,
					&quant.DimensionError{Op: "argument", Left: want, Right: got},
					"parameter %s of %s expects dimension %s, found %s",
					p.Name, e.Fn, c.registry.Format(want), c.registry.Format(got))
			}
		}
		sc[p.Name] = args[i]
	}

	if c.depth >= MaxCallDepth {
		return quant.Quantity{}, newError(src, e, RuntimeError, nil,
			"maximum call depth %d exceeded", MaxCallDepth)
	}
	c.depth++
	v, err := c.eval(fn.src, sc, fn.decl.Body)
	c.depth--
	if err != nil {
		return quant.Quantity{}, err
	}

	if fn.decl.Return != nil {
		got, err := c.units.DimOf(v.Unit)
		if err != nil {
			return quant.Quantity{}, c.unitError(src, e, err)
		}
		if !got.Equal(fn.returnDim) {
			return quant.Quantity{}, newError(src, e, DimensionError,
				&quant.DimensionError{Op: "return value", Left: fn.returnDim, Right: got},
				"%s returns dimension %s, declared %s",
				e.Fn, c.registry.Format(got), c.registry.Format(fn.returnDim))
		}
	}
	return v, nil
}
