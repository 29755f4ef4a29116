package parse

import (
	"strings"
	"testing"

	"src.numbox.dev/pkg/diag"
	. "src.numbox.dev/pkg/tt"
)

// prettyAll parses code and returns the pretty-printed statements joined by
// newlines, or the error message.
func prettyAll(code string) string {
	stmts, err := Parse(SourceForText("[test]", code))
	if err != nil {
		return "error: " + err.(*diag.Error).Message
	}
	lines := make([]string, len(stmts))
	for i, stmt := range stmts {
		lines[i] = stmt.Pretty()
	}
	return strings.Join(lines, "\n")
}

func TestParse_Pretty(t *testing.T) {
	Test(t, Fn("prettyAll", prettyAll), Table{
		// Literals and identifiers
		Args("1").Rets("1"),
		Args("2.5e3").Rets("2.5e3"),
		Args(".5").Rets(".5"),
		Args("x").Rets("x"),
		Args("°C").Rets("°C"),
		// Operators and precedence
		Args("1+2*3").Rets("1 + 2 * 3"),
		Args("(1+2)*3").Rets("(1 + 2) * 3"),
		Args("1-(2-3)").Rets("1 - (2 - 3)"),
		Args("2^3^2").Rets("2^3^2"),
		Args("(2^3)^2").Rets("(2^3)^2"),
		Args("2**-1").Rets("2^-1"),
		Args("-x^2").Rets("-x^2"),
		Args("(-x)^2").Rets("(-x)^2"),
		// Implicit multiplication binds tighter than division
		Args("5 m").Rets("5 m"),
		Args("5m").Rets("5 m"),
		Args("50 cm / 2 s").Rets("50 cm / 2 s"),
		Args("(1+2) m").Rets("(1 + 2) m"),
		Args("2e").Rets("2 e"),
		// Conversion
		Args("5 km -> m").Rets("5 km -> m"),
		Args("5 km to m").Rets("5 km -> m"),
		Args("1 + 2 m -> cm").Rets("1 + 2 m -> cm"),
		// Calls
		Args("sqrt(2)").Rets("sqrt(2)"),
		Args("max(1, 2 m)").Rets("max(1, 2 m)"),
		Args("f()").Rets("f()"),
		// Statements
		Args("let x = 3").Rets("let x = 3"),
		Args("let speed: Length / Time = 3 m/s").Rets("let speed: Length / Time = 3 m / s"),
		Args("fn area(w: Length, h) -> Length^2 = w * h").
			Rets("fn area(w: Length, h) -> Length^2 = w * h"),
		Args("unit foot: Length = 0.3048 m").Rets("unit foot: Length = 0.3048 m"),
		Args("unit metre: Length").Rets("unit metre: Length"),
		Args("unit knot = 1852 m / hour").Rets("unit knot = 1852 m / hour"),
		Args("dimension Length").Rets("dimension Length"),
		Args("dimension Speed = Length / Time").Rets("dimension Speed = Length / Time"),
		Args("dimension Jerk = Length / (Time^3)").Rets("dimension Jerk = Length / Time^3"),
		Args("dimension X = Length / (Time * Mass)").Rets("dimension X = Length / (Time * Mass)"),
		Args("dimension F = Mass Length").Rets("error: unexpected 'Length'"),
		Args("dimension W = Time^-1").Rets("dimension W = Time^-1"),
		Args("use units::si").Rets("use units::si"),
		// Separators, comments and blank lines
		Args("let a = 1; let b = 2").Rets("let a = 1\nlet b = 2"),
		Args("\n\nlet a = 1 # comment\n\n# only comment\na\n").Rets("let a = 1\na"),
		Args("(1 +\n 2)").Rets("1 + 2"),
		Args("").Rets(""),
	})
}

func TestParse_Errors(t *testing.T) {
	Test(t, Fn("prettyAll", prettyAll), Table{
		Args("1 +").Rets("error: expected expression, found end of input"),
		Args("let = 3").Rets("error: expected variable name, found '='"),
		Args("let to = 3").Rets("error: 'to' is a reserved word and cannot be used as variable name"),
		Args("let x 3").Rets("error: expected '=', found '3'"),
		Args("(1 + 2").Rets("error: expected ')', found end of input"),
		Args("1 )").Rets("error: unexpected ')'"),
		Args("f(1 2").Rets("error: expected ',' or ')', found end of input"),
		Args("fn f(x, x) = x").Rets("error: duplicate parameter 'x'"),
		Args("unit foo").Rets("error: base unit 'foo' needs a dimension annotation"),
		Args("dimension A = Length^1.5").Rets("error: dimension exponent must be an integer, found 1.5"),
		Args("use units::").Rets("error: expected module name, found end of input"),
		Args("1 $ 2").Rets("error: unexpected character '$'"),
	})
}

func TestParse_ErrorRange(t *testing.T) {
	_, err := Parse(SourceForText("[input 1]", "let x = 1 +\n"))
	e, ok := err.(*diag.Error)
	if !ok {
		t.Fatalf("got error %v, want *diag.Error", err)
	}
	if e.Type != "parse error" {
		t.Errorf("got type %q", e.Type)
	}
	if e.Context.Name != "[input 1]" {
		t.Errorf("got context name %q", e.Context.Name)
	}
	if want := (diag.Ranging{From: 11, To: 12}); e.Range() != want {
		t.Errorf("got range %v, want %v", e.Range(), want)
	}
}

func TestParse_Ranges(t *testing.T) {
	stmts, err := Parse(SourceForText("[test]", "a\nlet xy = 2 m"))
	if err != nil {
		t.Fatal(err)
	}
	let := stmts[1].(*LetStmt)
	if want := (diag.Ranging{From: 2, To: 14}); let.Range() != want {
		t.Errorf("let range %v, want %v", let.Range(), want)
	}
	if want := (diag.Ranging{From: 11, To: 14}); let.Value.Range() != want {
		t.Errorf("value range %v, want %v", let.Value.Range(), want)
	}
}

func TestParseExpr(t *testing.T) {
	e, err := ParseExpr(SourceForText("[test]", "3 ft -> m"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := e.(*Convert); !ok {
		t.Errorf("got %T, want *Convert", e)
	}
	if _, err := ParseExpr(SourceForText("[test]", "let x = 1")); err == nil {
		t.Errorf("ParseExpr accepted a statement")
	}
}

func TestIsKeyword(t *testing.T) {
	Test(t, Fn("IsKeyword", IsKeyword), Table{
		Args("let").Rets(true),
		Args("to").Rets(true),
		Args("metre").Rets(false),
	})
}

func TestIdentAt(t *testing.T) {
	Test(t, Fn("IdentAt", IdentAt), Table{
		Args("5 metre", 3).Rets("metre", diag.Ranging{From: 2, To: 7}, true),
		Args("5 metre", 7).Rets("metre", diag.Ranging{From: 2, To: 7}, true),
		Args("5 metre", 1).Rets("", diag.Ranging{}, false),
		Args("5m", 1).Rets("m", diag.Ranging{From: 1, To: 2}, true),
		Args("sqrt(µs)", 7).Rets("µs", diag.Ranging{From: 5, To: 8}, true),
		Args("x", 5).Rets("", diag.Ranging{}, false),
	})
}
