// Package eval interprets parsed numbox code.
//
// A Context holds the state that persists between evaluations: variables,
// functions, units, dimensions and the set of imported modules. Each call to
// Interpret runs the statements of one source in order; the effect of each
// statement is committed as soon as it succeeds.
package eval

import (
	"context"
	"sort"

	"src.numbox.dev/pkg/logutil"
	"src.numbox.dev/pkg/modules"
	"src.numbox.dev/pkg/parse"
	"src.numbox.dev/pkg/quant"
)

var logger = logutil.GetLogger("[eval] ")

// DefaultTerminalWidth is used when no terminal width has been set.
const DefaultTerminalWidth = 80

// Importer resolves module names to module code. It is satisfied by
// *modules.Chain.
type Importer interface {
	Resolve(ctx context.Context, name string) (modules.Module, error)
}

// Context is the state of an interpreter. It is not safe for concurrent use;
// callers serialize access.
type Context struct {
	importer Importer

	vars     map[string]quant.Quantity
	fns      map[string]*function
	units    quant.UnitTable
	registry *quant.DimensionRegistry
	decls    map[declKey]string
	imported map[string]bool

	termWidth int
	depth     int
	// Number of unit definitions retired by redefinitions.
	unitGen int
}

type declKey struct {
	kind Kind
	name string
}

// NewContext creates a Context that imports modules with the given importer,
// which may be nil.
func NewContext(importer Importer) *Context {
	return &Context{
		importer:  importer,
		vars:      make(map[string]quant.Quantity),
		fns:       make(map[string]*function),
		units:     make(quant.UnitTable),
		registry:  quant.NewDimensionRegistry(),
		decls:     make(map[declKey]string),
		imported:  make(map[string]bool),
		termWidth: DefaultTerminalWidth,
	}
}

// SetTerminalWidth sets the width used to lay out results.
func (c *Context) SetTerminalWidth(w int) {
	if w <= 0 {
		w = DefaultTerminalWidth
	}
	c.termWidth = w
}

// TerminalWidth returns the width used to lay out results.
func (c *Context) TerminalWidth() int { return c.termWidth }

// DimensionRegistry returns the current dimension registry. The registry is
// immutable, so the returned value stays valid after further evaluation.
func (c *Context) DimensionRegistry() *quant.DimensionRegistry { return c.registry }

// Interpret parses and runs src. On success it returns the parsed statements
// and the result of the last statement. Statements that ran before a failing
// one keep their effects.
func (c *Context) Interpret(ctx context.Context, src parse.Source) ([]parse.Stmt, Result, error) {
	logger.Debug("Evaluating", "name", src.Name, "code", src.Code)
	stmts, err := parse.Parse(src)
	if err != nil {
		return nil, Result{}, err
	}
	var res Result
	for _, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return nil, Result{}, err
		}
		res, err = c.exec(ctx, src, stmt)
		if err != nil {
			return nil, Result{}, err
		}
	}
	return stmts, res, nil
}

// Kind is the kind of a named entity.
type Kind int

// Possible values of Kind.
const (
	Variable Kind = iota
	Function
	Unit
	Dimension
)

var kindNames = [...]string{Variable: "variable", Function: "function", Unit: "unit", Dimension: "dimension"}

func (k Kind) String() string { return kindNames[k] }

// Binding describes a named entity known to a Context.
type Binding struct {
	Name string
	Kind Kind
	// Decl is the pretty-printed declaring statement, or the signature of a
	// built-in function.
	Decl string
	// Dim is the dimension of a variable, unit or dimension. It is nil for
	// functions.
	Dim quant.Dim
	// Value is the value of a variable, and nil otherwise.
	Value *quant.Quantity
}

// Lookup finds a binding by name. Variables are preferred over units, units
// over functions and functions over dimensions, mirroring how identifiers
// are resolved in expressions.
func (c *Context) Lookup(name string) (Binding, bool) {
	for _, kind := range []Kind{Variable, Unit, Function, Dimension} {
		if b, ok := c.binding(kind, name); ok {
			return b, true
		}
	}
	return Binding{}, false
}

func (c *Context) binding(kind Kind, name string) (Binding, bool) {
	b := Binding{Name: name, Kind: kind, Decl: c.decls[declKey{kind, name}]}
	switch kind {
	case Variable:
		v, ok := c.vars[name]
		if !ok {
			return Binding{}, false
		}
		b.Value = &v
		b.Dim, _ = c.units.DimOf(v.Unit)
	case Unit:
		def, ok := c.units[name]
		if !ok {
			return Binding{}, false
		}
		b.Dim = def.Dim
	case Function:
		if _, ok := c.fns[name]; !ok {
			if _, ok := builtins[name]; !ok {
				return Binding{}, false
			}
			b.Decl = builtins[name].signature
		}
	case Dimension:
		dim, ok := c.registry.Lookup(name)
		if !ok {
			return Binding{}, false
		}
		b.Dim = dim
	}
	return b, true
}

// Bindings returns all bindings, sorted by kind and then by name.
func (c *Context) Bindings() []Binding {
	var bs []Binding
	add := func(kind Kind, name string) {
		if b, ok := c.binding(kind, name); ok {
			bs = append(bs, b)
		}
	}
	for name := range c.vars {
		add(Variable, name)
	}
	for name := range c.fns {
		add(Function, name)
	}
	for name := range builtins {
		if _, ok := c.fns[name]; !ok {
			add(Function, name)
		}
	}
	for name := range c.units {
		if !quant.IsRetired(name) {
			add(Unit, name)
		}
	}
	for _, name := range c.registry.Names() {
		add(Dimension, name)
	}
	sort.Slice(bs, func(i, j int) bool {
		if bs[i].Kind != bs[j].Kind {
			return bs[i].Kind < bs[j].Kind
		}
		return bs[i].Name < bs[j].Name
	})
	return bs
}
