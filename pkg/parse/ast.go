package parse

import (
	"strconv"
	"strings"

	"src.numbox.dev/pkg/diag"
)

// Node is implemented by all nodes of the syntax tree.
type Node interface {
	diag.Ranger
	// Pretty returns the canonical printed form of the node.
	Pretty() string
}

// Stmt is a statement.
type Stmt interface {
	Node
	stmt()
}

// Expr is an expression that evaluates to a quantity.
type Expr interface {
	Node
	prec() int
}

// DimExpr is an expression that denotes a dimension.
type DimExpr interface {
	Node
	dimPrec() int
}

// Precedence levels of expressions, from loosest to tightest.
const (
	precConvert = iota + 1
	precAdd
	precMul
	precImplicit
	precUnary
	precPow
	precPrimary
)

// LetStmt is "let NAME [: DIM] = EXPR".
type LetStmt struct {
	diag.Ranging
	Name  string
	Dim   DimExpr
	Value Expr
}

// Param is a function parameter, with an optional dimension annotation.
type Param struct {
	diag.Ranging
	Name string
	Dim  DimExpr
}

// FnStmt is "fn NAME(PARAMS) [-> DIM] = EXPR".
type FnStmt struct {
	diag.Ranging
	Name   string
	Params []Param
	Return DimExpr
	Body   Expr
}

// UnitStmt is "unit NAME [: DIM] [= EXPR]". A unit without a value is a base
// unit.
type UnitStmt struct {
	diag.Ranging
	Name  string
	Dim   DimExpr
	Value Expr
}

// DimensionStmt is "dimension NAME [= DIMEXPR]". A dimension without a
// definition is a base dimension.
type DimensionStmt struct {
	diag.Ranging
	Name string
	Def  DimExpr
}

// UseStmt is "use a::b".
type UseStmt struct {
	diag.Ranging
	Module string
}

// ExprStmt is an expression evaluated for its value.
type ExprStmt struct {
	diag.Ranging
	Expr Expr
}

func (*LetStmt) stmt()       {}
func (*FnStmt) stmt()        {}
func (*UnitStmt) stmt()      {}
func (*DimensionStmt) stmt() {}
func (*UseStmt) stmt()       {}
func (*ExprStmt) stmt()      {}

func (s *LetStmt) Pretty() string {
	return "let " + s.Name + annotation(s.Dim) + " = " + s.Value.Pretty()
}

func (s *FnStmt) Pretty() string {
	var sb strings.Builder
	sb.WriteString("fn " + s.Name + "(")
	for i, p := range s.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name + annotation(p.Dim))
	}
	sb.WriteString(")")
	if s.Return != nil {
		sb.WriteString(" -> " + s.Return.Pretty())
	}
	sb.WriteString(" = " + s.Body.Pretty())
	return sb.String()
}

func (s *UnitStmt) Pretty() string {
	text := "unit " + s.Name + annotation(s.Dim)
	if s.Value != nil {
		text += " = " + s.Value.Pretty()
	}
	return text
}

func (s *DimensionStmt) Pretty() string {
	if s.Def == nil {
		return "dimension " + s.Name
	}
	return "dimension " + s.Name + " = " + s.Def.Pretty()
}

func (s *UseStmt) Pretty() string  { return "use " + s.Module }
func (s *ExprStmt) Pretty() string { return s.Expr.Pretty() }

func annotation(d DimExpr) string {
	if d == nil {
		return ""
	}
	return ": " + d.Pretty()
}

// Number is a numeric literal.
type Number struct {
	diag.Ranging
	Value float64
	Text  string
}

// Ident is a reference to a variable, unit or constant.
type Ident struct {
	diag.Ranging
	Name string
}

// Call is a function call.
type Call struct {
	diag.Ranging
	Fn   string
	Args []Expr
}

// Negate is unary minus.
type Negate struct {
	diag.Ranging
	X Expr
}

// BinaryOp is a binary arithmetic operator.
type BinaryOp int

// Binary operators.
const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Pow
)

var binaryOpText = [...]string{Add: "+", Sub: "-", Mul: "*", Div: "/", Pow: "^"}

func (op BinaryOp) String() string { return binaryOpText[op] }

// Binary is a binary operation. Implicit is set for multiplications written
// as juxtaposition, like "5 m".
type Binary struct {
	diag.Ranging
	Op       BinaryOp
	L, R     Expr
	Implicit bool
}

// Convert is a unit conversion "X -> TARGET" or "X to TARGET".
type Convert struct {
	diag.Ranging
	X      Expr
	Target Expr
}

func (*Number) prec() int  { return precPrimary }
func (*Ident) prec() int   { return precPrimary }
func (*Call) prec() int    { return precPrimary }
func (*Negate) prec() int  { return precUnary }
func (*Convert) prec() int { return precConvert }

func (e *Binary) prec() int {
	switch {
	case e.Op == Add || e.Op == Sub:
		return precAdd
	case e.Implicit:
		return precImplicit
	case e.Op == Pow:
		return precPow
	default:
		return precMul
	}
}

func (e *Number) Pretty() string { return e.Text }
func (e *Ident) Pretty() string  { return e.Name }

func (e *Call) Pretty() string {
	args := make([]string, len(e.Args))
	for i, arg := range e.Args {
		args[i] = arg.Pretty()
	}
	return e.Fn + "(" + strings.Join(args, ", ") + ")"
}

func (e *Negate) Pretty() string { return "-" + wrap(e.X, precUnary) }

func (e *Binary) Pretty() string {
	p := e.prec()
	if e.Op == Pow {
		// Right-associative: the base needs parentheses at equal precedence.
		return wrap(e.L, p+1) + "^" + wrap(e.R, precUnary)
	}
	l, r := wrap(e.L, p), wrap(e.R, p+1)
	if e.Implicit {
		return l + " " + r
	}
	return l + " " + e.Op.String() + " " + r
}

func (e *Convert) Pretty() string {
	return wrap(e.X, precConvert) + " -> " + wrap(e.Target, precConvert+1)
}

// wrap returns the printed form of e, parenthesized if its precedence is
// lower than min.
func wrap(e Expr, min int) string {
	if e.prec() < min {
		return "(" + e.Pretty() + ")"
	}
	return e.Pretty()
}

// DimName refers to a named dimension.
type DimName struct {
	diag.Ranging
	Name string
}

// DimBinary is a product or quotient of dimensions.
type DimBinary struct {
	diag.Ranging
	Op   BinaryOp
	L, R DimExpr
}

// DimPow raises a dimension to an integer power.
type DimPow struct {
	diag.Ranging
	Base DimExpr
	Exp  int
}

func (*DimName) dimPrec() int   { return precPrimary }
func (*DimBinary) dimPrec() int { return precMul }
func (*DimPow) dimPrec() int    { return precPow }

func (d *DimName) Pretty() string { return d.Name }

func (d *DimBinary) Pretty() string {
	return dimWrap(d.L, precMul) + " " + d.Op.String() + " " + dimWrap(d.R, precMul+1)
}

func (d *DimPow) Pretty() string {
	return dimWrap(d.Base, precPrimary) + "^" + strconv.Itoa(d.Exp)
}

func dimWrap(d DimExpr, min int) string {
	if d.dimPrec() < min {
		return "(" + d.Pretty() + ")"
	}
	return d.Pretty()
}
