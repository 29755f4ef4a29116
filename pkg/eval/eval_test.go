package eval_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"src.numbox.dev/pkg/diag"
	. "src.numbox.dev/pkg/eval"
	"src.numbox.dev/pkg/modules"
	"src.numbox.dev/pkg/modules/bundled"
	"src.numbox.dev/pkg/parse"
	. "src.numbox.dev/pkg/tt"
)

var bg = context.Background()

func newPreludeContext(t *testing.T) *Context {
	t.Helper()
	c := NewContext(modules.NewChain(nil, bundled.FS))
	_, _, err := c.Interpret(bg, parse.Source{Name: "[internal]", Code: "use prelude", Provenance: parse.Internal})
	if err != nil {
		t.Fatalf("prelude failed: %v", err)
	}
	return c
}

// run interprets code and returns the plain result markup, or a description
// of the error.
func run(c *Context, code string) string {
	stmts, res, err := c.Interpret(bg, parse.SourceForText("[test]", code))
	if err != nil {
		var e *diag.Error
		if errors.As(err, &e) {
			return "error: " + e.Type + ": " + e.Message
		}
		return "error: " + err.Error()
	}
	if len(stmts) == 0 {
		return ""
	}
	return res.Markup(stmts[len(stmts)-1], c.DimensionRegistry(), true, true).String()
}

func TestInterpret(t *testing.T) {
	Test(t, Fn("run", func(code string) string {
		return run(newPreludeContext(t), code)
	}).ArgsFmt("%q"), Table{
		// Arithmetic
		Args("1 + 2").Rets("= 3"),
		Args("2 ^ 10").Rets("= 1024"),
		Args("1 / 0").Rets("= inf"),
		Args("5 m").Rets("= 5 m    [Length]"),
		Args("3 km + 500 m").Rets("= 3.5 km    [Length]"),
		Args("2 m * 3 m").Rets("= 6 m^2    [Area]"),
		Args("100 km / 2 h").Rets("= 50 km/h    [Velocity]"),
		Args("50 %").Rets("= 50 %"),
		// Conversions
		Args("100 km / 2 h -> m/s").Rets("= 13.8889 m/s    [Velocity]"),
		Args("1 ft to cm").Rets("= 30.48 cm    [Length]"),
		Args("5 m -> 2 m").Rets("error: runtime error: conversion target must be a unit, found 2 m"),
		Args("5 m -> s").Rets("error: dimension error: incompatible dimensions in conversion: Time vs Length"),
		// Built-in functions
		Args("sqrt(16 m^2)").Rets("= 4 m    [Length]"),
		Args("sin(pi / 2)").Rets("= 1"),
		Args("sin(90 deg)").Rets("= 1"),
		Args("abs(-3 s)").Rets("= 3 s    [Time]"),
		Args("sqrt(2 m)").Rets("error: runtime error: cannot take the square root of a unit with odd exponents: m"),
		Args("sin(1 m)").Rets("error: dimension error: incompatible dimensions in argument of sin: Scalar vs Length"),
		Args("sqrt(1, 2)").Rets("error: runtime error: function sqrt expects 1 argument(s), got 2"),
		Args("(2 m)^0.5").Rets("error: runtime error: exponent must be an integer for quantities with units"),
		// Definitions
		Args("let x = 3 m; x * 2").Rets("= 6 m    [Length]"),
		Args("let x = 3 m").Rets(""),
		Args("let x: Time = 3 m").Rets("error: dimension error: expected dimension Time, found Length"),
		Args("let x: Nope = 3 m").Rets("error: name error: unknown dimension 'Nope'"),
		Args("fn sq(x) = x * x; sq(3 m)").Rets("= 9 m^2    [Area]"),
		Args("fn f(x: Length) = x; f(2 s)").Rets(
			"error: dimension error: parameter x of f expects dimension Length, found Time"),
		Args("fn f(x) -> Length = x; f(2 s)").Rets(
			"error: dimension error: f returns dimension Time, declared Length"),
		Args("fn f(x, y) = x; f(1)").Rets("error: runtime error: function f expects 2 argument(s), got 1"),
		Args("fn r(x) = r(x); r(1)").Rets("error: runtime error: maximum call depth 256 exceeded"),
		Args("unit furlong = 201.168 m; 1 furlong -> m").Rets("= 201.168 m    [Length]"),
		Args("unit smoot: Length = 1.7018 m; 2 smoot").Rets("= 2 smoot    [Length]"),
		Args("unit bad: Time = 3 m").Rets("error: dimension error: expected dimension Time, found Length"),
		Args("dimension Jerk = Length / Time^3; 1 m / s^3").Rets("= 1 m/s^3    [Jerk]"),
		Args("dimension Length").Rets(""),
		// Name errors
		Args("foo").Rets("error: name error: unknown identifier 'foo'"),
		Args("foo(1)").Rets("error: name error: unknown function 'foo'"),
		Args("let a = 2; a(3)").Rets("error: name error: 'a' is not a function"),
		Args("fn twice(x) = 2 x; twice").Rets("error: name error: 'twice' is a function and must be called with arguments"),
		Args("1 m + 1 s").Rets("error: dimension error: incompatible dimensions in addition: Length vs Time"),
		// Modules
		Args("use no::such").Rets("error: import error: module 'no::such' not found"),
		Args("use physics::constants; standard_gravity").Rets("= 9.80665 m/s^2    [Acceleration]"),
		Args("use prelude; 1 m").Rets("= 1 m    [Length]"),
		// Parse errors pass through
		Args("1 +").Rets("error: parse error: expected expression, found end of input"),
	})
}

func TestInterpret_StatePersists(t *testing.T) {
	c := newPreludeContext(t)
	Test(t, Fn("run", func(code string) string { return run(c, code) }), Table{
		Args("3 m").Rets("= 3 m    [Length]"),
		Args("ans * 2").Rets("= 6 m    [Length]"),
		Args("let x = 1").Rets(""),
		Args("let x = 2").Rets(""),
		Args("x").Rets("= 2"),
		// Statements before a failing one are committed.
		Args("let y = 1; let z = nope").Rets("error: name error: unknown identifier 'nope'"),
		Args("y").Rets("= 1"),
		Args("z").Rets("error: name error: unknown identifier 'z'"),
		// A variable shadows a unit; a later unit definition takes the name
		// back.
		Args("let m = 7").Rets(""),
		Args("m").Rets("= 7"),
		Args("unit m = metre").Rets(""),
		Args("m").Rets("= 1 m    [Length]"),
	})
}

func TestInterpret_UnitRedefinition(t *testing.T) {
	c := newPreludeContext(t)
	Test(t, Fn("run", func(code string) string { return run(c, code) }).ArgsFmt("%q"), Table{
		Args("unit foo = 2 m").Rets(""),
		Args("let d: Length = 3 foo").Rets(""),
		Args("fn twofoo() = 2 foo").Rets(""),
		Args("d -> m").Rets("= 6 m    [Length]"),
		Args("unit foo = 5 s").Rets(""),
		// Values bound earlier keep the old definition.
		Args("d").Rets("= 3 foo    [Length]"),
		Args("d -> m").Rets("= 6 m    [Length]"),
		Args("1 foo -> s").Rets("= 5 s    [Time]"),
		Args("d + 1 foo").Rets(
			"error: dimension error: incompatible dimensions in addition: Length vs Time"),
		// Functions see the current definition when called.
		Args("twofoo() -> s").Rets("= 10 s    [Time]"),
		// A value in the unit that its own definition replaces.
		Args("let foo = 4 foo").Rets(""),
		Args("foo -> s").Rets("= 20 s    [Time]"),
		Args("d").Rets("= 3 foo    [Length]"),
	})
	for _, b := range c.Bindings() {
		if strings.Contains(b.Name, "#") {
			t.Errorf("retired unit %q listed in bindings", b.Name)
		}
	}
}

func TestInterpret_RedefinitionAcrossKinds(t *testing.T) {
	c := newPreludeContext(t)
	Test(t, Fn("run", func(code string) string { return run(c, code) }).ArgsFmt("%q"), Table{
		// Variable after function.
		Args("fn f(y) = y * 2").Rets(""),
		Args("let f = 10").Rets(""),
		Args("f").Rets("= 10"),
		Args("f(1)").Rets("error: name error: 'f' is not a function"),
		// Function after variable.
		Args("let g = 3").Rets(""),
		Args("fn g() = 7").Rets(""),
		Args("g()").Rets("= 7"),
		Args("g").Rets("error: name error: 'g' is a function and must be called with arguments"),
		// Unit after variable and function.
		Args("unit f = 3 m").Rets(""),
		Args("f -> m").Rets("= 3 m    [Length]"),
		Args("unit g = 2 s").Rets(""),
		Args("g").Rets("= 1 g    [Time]"),
		// Function after unit.
		Args("fn f(x) = x + 1").Rets(""),
		Args("f(1)").Rets("= 2"),
		// A variable shadows a built-in function.
		Args("let sqrt = 4").Rets(""),
		Args("sqrt(4)").Rets("error: name error: 'sqrt' is not a function"),
	})

	Test(t, Fn("lookup", func(name string) (Kind, string) {
		b, _ := c.Lookup(name)
		return b.Kind, b.Decl
	}), Table{
		Args("f").Rets(Function, "fn f(x) = x + 1"),
		Args("g").Rets(Unit, "unit g = 2 s"),
	})
}

func TestInterpret_DimensionRedefinition(t *testing.T) {
	c := newPreludeContext(t)
	Test(t, Fn("run", func(code string) string { return run(c, code) }).ArgsFmt("%q"), Table{
		Args("dimension Foo").Rets(""),
		Args("dimension Foo").Rets(""),
		Args("dimension Jerk = Length / Time^3").Rets(""),
		Args("1 m / s^3").Rets("= 1 m/s^3    [Jerk]"),
		Args("dimension Jerk = Time").Rets(""),
		Args("1 m / s^3").Rets("= 1 m/s^3    [Length / Time^3]"),
		Args("let t: Jerk = 2 s").Rets(""),
		// Units keep the dimension they were defined with.
		Args("dimension Length = Time").Rets(""),
		Args("1 m").Rets("= 1 m    [Length]"),
		Args("let x: Length = 1 s").Rets(""),
	})
}

func TestInterpret_TerminalWidth(t *testing.T) {
	c := newPreludeContext(t)
	c.SetTerminalWidth(20)
	if w := c.TerminalWidth(); w != 20 {
		t.Errorf("TerminalWidth() -> %d", w)
	}
	Test(t, Fn("run", func(code string) string { return run(c, code) }), Table{
		Args("5 m").Rets("= 5 m    [Length]"),
		Args("100 km / 2 h").Rets("= 50 km/h\n    [Velocity]"),
	})
	c.SetTerminalWidth(0)
	if w := c.TerminalWidth(); w != DefaultTerminalWidth {
		t.Errorf("TerminalWidth() after resetting -> %d", w)
	}
}

func TestResult_Markup(t *testing.T) {
	c := newPreludeContext(t)
	stmts, res, err := c.Interpret(bg, parse.SourceForText("[test]", "2 m"))
	if err != nil {
		t.Fatal(err)
	}
	reg := c.DimensionRegistry()
	Test(t, Fn("markup", func(withTypeInfo, withEqualSign bool) string {
		return res.Markup(stmts[0], reg, withTypeInfo, withEqualSign).String()
	}), Table{
		Args(true, true).Rets("= 2 m    [Length]"),
		Args(false, true).Rets("= 2 m"),
		Args(true, false).Rets("2 m    [Length]"),
		Args(false, false).Rets("2 m"),
	})
	if vt := res.Markup(stmts[0], reg, true, true).VTString(); !strings.Contains(vt, "\033[") {
		t.Errorf("VTString has no SGR sequences: %q", vt)
	}
	letStmts, letRes, _ := c.Interpret(bg, parse.SourceForText("[test]", "let q = 1"))
	if text := letRes.Markup(letStmts[0], reg, true, true); text != nil {
		t.Errorf("Markup of let statement -> %q, want nil", text.String())
	}
}

type mapImporter struct {
	mods  map[string]string
	calls map[string]int
}

func newMapImporter(mods map[string]string) *mapImporter {
	return &mapImporter{mods, make(map[string]int)}
}

func (m *mapImporter) Resolve(_ context.Context, name string) (modules.Module, error) {
	m.calls[name]++
	code, ok := m.mods[name]
	if !ok {
		return modules.Module{}, &modules.NotFoundError{Name: name}
	}
	return modules.Module{Name: name, Origin: "[mod " + name + "]", Code: code}, nil
}

func TestUse_ImportsOnce(t *testing.T) {
	imp := newMapImporter(map[string]string{"a": "let a_val = 1"})
	c := NewContext(imp)
	run(c, "use a")
	run(c, "use a; use a")
	if n := imp.calls["a"]; n != 1 {
		t.Errorf("module resolved %d times, want 1", n)
	}
	if !c.Imported("a") {
		t.Errorf("Imported(a) -> false")
	}
}

func TestUse_FailedImportIsRetried(t *testing.T) {
	imp := newMapImporter(map[string]string{"bad": "let q = nope"})
	c := NewContext(imp)

	_, _, err := c.Interpret(bg, parse.SourceForText("[test]", "use bad"))
	var e *diag.Error
	if !errors.As(err, &e) || e.Context.Name != "[mod bad]" {
		t.Fatalf("got error %v, want error located in the module", err)
	}
	if c.Imported("bad") {
		t.Errorf("failed module recorded as imported")
	}

	imp.mods["bad"] = "let q = 1"
	if got := run(c, "use bad; q"); got != "= 1" {
		t.Errorf("got %q after retry", got)
	}
	if n := imp.calls["bad"]; n != 2 {
		t.Errorf("module resolved %d times, want 2", n)
	}
}

func TestUse_Circular(t *testing.T) {
	c := NewContext(newMapImporter(map[string]string{
		"a": "use b\nlet a_val = 1",
		"b": "use a\nlet b_val = 2",
	}))
	if got := run(c, "use a; a_val + b_val"); got != "= 3" {
		t.Errorf("got %q", got)
	}
}

func TestUse_NotFoundWrapsSentinel(t *testing.T) {
	c := NewContext(newMapImporter(nil))
	_, _, err := c.Interpret(bg, parse.SourceForText("[test]", "use x"))
	if !errors.Is(err, modules.ErrNotFound) {
		t.Errorf("got %v, want error wrapping modules.ErrNotFound", err)
	}
	c = NewContext(nil)
	_, _, err = c.Interpret(bg, parse.SourceForText("[test]", "use x"))
	if !errors.Is(err, modules.ErrNotFound) {
		t.Errorf("got %v without importer, want error wrapping modules.ErrNotFound", err)
	}
}

func TestInterpret_CancelledContext(t *testing.T) {
	c := NewContext(nil)
	ctx, cancel := context.WithCancel(bg)
	cancel()
	_, _, err := c.Interpret(ctx, parse.SourceForText("[test]", "let x = 1"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if _, ok := c.Lookup("x"); ok {
		t.Errorf("statement ran despite cancelled context")
	}
}

func TestLookup(t *testing.T) {
	c := newPreludeContext(t)
	run(c, "let x = 3 m")
	run(c, "fn double(v) = 2 v")

	Test(t, Fn("lookup", func(name string) (Kind, string, bool) {
		b, ok := c.Lookup(name)
		return b.Kind, b.Decl, ok
	}), Table{
		Args("x").Rets(Variable, "let x = 3 m", true),
		Args("m").Rets(Unit, "unit m = metre", true),
		Args("double").Rets(Function, "fn double(v) = 2 v", true),
		Args("sqrt").Rets(Function, "fn sqrt(x)", true),
		Args("Length").Rets(Dimension, "dimension Length", true),
		Args("nothing").Rets(Variable, "", false),
	})

	b, _ := c.Lookup("x")
	if b.Value == nil || b.Value.String() != "3 m" {
		t.Errorf("value of x -> %v", b.Value)
	}
	if reg := c.DimensionRegistry(); reg.Format(b.Dim) != "Length" {
		t.Errorf("dimension of x -> %v", b.Dim)
	}
}

func TestBindings(t *testing.T) {
	c := NewContext(nil)
	run(c, "dimension Length; unit metre: Length; let a = 1; fn f(x) = x")
	var names []string
	for _, b := range c.Bindings() {
		if b.Kind == Function && IsBuiltin(b.Name) {
			continue
		}
		names = append(names, b.Kind.String()+":"+b.Name)
	}
	want := "variable:a function:f unit:metre dimension:Length"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
