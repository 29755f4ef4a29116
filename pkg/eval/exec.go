package eval

import (
	"context"
	"errors"

	"src.numbox.dev/pkg/modules"
	"src.numbox.dev/pkg/parse"
	"src.numbox.dev/pkg/quant"
)

// AnsName is the variable bound to the value of the last expression
// statement.
const AnsName = "ans"

func (c *Context) exec(ctx context.Context, src parse.Source, stmt parse.Stmt) (Result, error) {
	switch stmt := stmt.(type) {
	case *parse.ExprStmt:
		v, err := c.eval(src, nil, stmt.Expr)
		if err != nil {
			return Result{}, err
		}
		dim, err := c.units.DimOf(v.Unit)
		if err != nil {
			return Result{}, c.unitError(src, stmt, err)
		}
		c.vars[AnsName] = v
		return Result{Value: &v, Dim: dim, width: c.termWidth}, nil
	case *parse.LetStmt:
		return Result{}, c.execLet(src, stmt)
	case *parse.FnStmt:
		return Result{}, c.execFn(src, stmt)
	case *parse.UnitStmt:
		return Result{}, c.execUnit(src, stmt)
	case *parse.DimensionStmt:
		return Result{}, c.execDimension(src, stmt)
	case *parse.UseStmt:
		return Result{}, c.use(ctx, src, stmt)
	default:
		panic("unreachable")
	}
}

func (c *Context) execLet(src parse.Source, stmt *parse.LetStmt) error {
	v, err := c.eval(src, nil, stmt.Value)
	if err != nil {
		return err
	}
	if stmt.Dim != nil {
		if err := c.checkDim(src, stmt.Value, v.Unit, stmt.Dim); err != nil {
			return err
		}
	}
	if retired := c.forget(stmt.Name); retired != "" {
		// The value may be in the unit it replaces, as in "let ft = 3 ft".
		v.Unit = v.Unit.Rename(stmt.Name, retired)
	}
	c.vars[stmt.Name] = v
	c.decls[declKey{Variable, stmt.Name}] = stmt.Pretty()
	return nil
}

func (c *Context) execFn(src parse.Source, stmt *parse.FnStmt) error {
	fn := &function{decl: stmt, src: src}
	for _, p := range stmt.Params {
		var dim quant.Dim
		if p.Dim != nil {
			d, err := c.resolveDim(src, p.Dim)
			if err != nil {
				return err
			}
			dim = d
		}
		fn.paramDims = append(fn.paramDims, dim)
	}
	if stmt.Return != nil {
		d, err := c.resolveDim(src, stmt.Return)
		if err != nil {
			return err
		}
		fn.returnDim = d
	}
	c.forget(stmt.Name)
	c.fns[stmt.Name] = fn
	c.decls[declKey{Function, stmt.Name}] = stmt.Pretty()
	return nil
}

func (c *Context) execUnit(src parse.Source, stmt *parse.UnitStmt) error {
	def := quant.UnitDef{Name: stmt.Name, Factor: 1}
	if stmt.Value == nil {
		d, err := c.resolveDim(src, stmt.Dim)
		if err != nil {
			return err
		}
		def.Dim = d
	} else {
		v, err := c.eval(src, nil, stmt.Value)
		if err != nil {
			return err
		}
		if stmt.Dim != nil {
			if err := c.checkDim(src, stmt.Value, v.Unit, stmt.Dim); err != nil {
				return err
			}
		}
		factor, err := c.units.Factor(v.Unit)
		if err != nil {
			return c.unitError(src, stmt.Value, err)
		}
		def.Factor = v.Value * factor
		def.Dim, _ = c.units.DimOf(v.Unit)
	}
	c.forget(stmt.Name)
	c.units[stmt.Name] = def
	c.decls[declKey{Unit, stmt.Name}] = stmt.Pretty()
	return nil
}

// forget removes the variable, function or unit called name, before name is
// defined again. Committed values keep their meaning: quantities in a
// forgotten unit are moved to a retired copy of the unit definition, whose
// name is returned.
func (c *Context) forget(name string) string {
	delete(c.vars, name)
	delete(c.decls, declKey{Variable, name})
	delete(c.fns, name)
	delete(c.decls, declKey{Function, name})
	def, ok := c.units[name]
	if !ok {
		return ""
	}
	c.unitGen++
	retired := quant.RetiredName(name, c.unitGen)
	def.Name = retired
	c.units[retired] = def
	delete(c.units, name)
	delete(c.decls, declKey{Unit, name})
	for k, v := range c.vars {
		if v.Unit.Has(name) {
			c.vars[k] = quant.Quantity{Value: v.Value, Unit: v.Unit.Rename(name, retired)}
		}
	}
	logger.Debug("retired unit definition", "name", name, "as", retired)
	return retired
}

func (c *Context) execDimension(src parse.Source, stmt *parse.DimensionStmt) error {
	if stmt.Def == nil {
		c.registry = c.registry.WithBase(stmt.Name)
	} else {
		dim, err := c.resolveDim(src, stmt.Def)
		if err != nil {
			return err
		}
		c.registry = c.registry.WithDerived(stmt.Name, dim)
	}
	c.decls[declKey{Dimension, stmt.Name}] = stmt.Pretty()
	return nil
}

// use imports a module. Each module is imported at most once. The module is
// marked as imported before it runs, so that circular imports terminate, and
// unmarked if it fails, so that it can be retried.
func (c *Context) use(ctx context.Context, src parse.Source, stmt *parse.UseStmt) error {
	name := stmt.Module
	if c.imported[name] {
		return nil
	}
	if c.importer == nil {
		return newError(src, stmt, ImportError, &modules.NotFoundError{Name: name},
			"module '%s' not found: no module importer", name)
	}
	mod, err := c.importer.Resolve(ctx, name)
	if err != nil {
		if errors.Is(err, modules.ErrNotFound) {
			return newError(src, stmt, ImportError, err, "module '%s' not found", name)
		}
		return newError(src, stmt, ImportError, err, "cannot load module '%s': %v", name, err)
	}
	logger.Debug("importing module", "name", name, "origin", mod.Origin)
	c.imported[name] = true
	modSrc := parse.Source{Name: mod.Origin, Code: mod.Code, Provenance: parse.Module}
	if _, _, err := c.Interpret(ctx, modSrc); err != nil {
		delete(c.imported, name)
		return err
	}
	return nil
}

// Imported reports whether a module has been imported.
func (c *Context) Imported(name string) bool { return c.imported[name] }

func (c *Context) resolveDim(src parse.Source, d parse.DimExpr) (quant.Dim, error) {
	switch d := d.(type) {
	case *parse.DimName:
		if d.Name == ScalarDimension {
			return nil, nil
		}
		dim, ok := c.registry.Lookup(d.Name)
		if !ok {
			return nil, newError(src, d, NameError, nil, "unknown dimension '%s'", d.Name)
		}
		return dim, nil
	case *parse.DimBinary:
		l, err := c.resolveDim(src, d.L)
		if err != nil {
			return nil, err
		}
		r, err := c.resolveDim(src, d.R)
		if err != nil {
			return nil, err
		}
		if d.Op == parse.Div {
			return l.Div(r), nil
		}
		return l.Mul(r), nil
	case *parse.DimPow:
		base, err := c.resolveDim(src, d.Base)
		if err != nil {
			return nil, err
		}
		return base.Pow(d.Exp), nil
	default:
		panic("unreachable")
	}
}

// ScalarDimension is the name of the dimension of pure numbers. It is always
// defined.
const ScalarDimension = "Scalar"

// checkDim checks that a value with unit u has the annotated dimension.
func (c *Context) checkDim(src parse.Source, node parse.Node, u quant.Unit, annot parse.DimExpr) error {
	want, err := c.resolveDim(src, annot)
	if err != nil {
		return err
	}
	got, err := c.units.DimOf(u)
	if err != nil {
		return c.unitError(src, node, err)
	}
	if !got.Equal(want) {
		return newError(src, node, DimensionError,
			&quant.DimensionError{Op: "annotation", Left: want, Right: got},
			"expected dimension %s, found %s", c.registry.Format(want), c.registry.Format(got))
	}
	return nil
}

func (c *Context) unitError(src parse.Source, node parse.Node, err error) error {
	return newError(src, node, NameError, err, "%s", err.Error())
}
