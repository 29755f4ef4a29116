// Package parse implements the parser of the numbox language.
//
// A program is a sequence of statements separated by newlines or semicolons.
// The parser produces a syntax tree whose nodes can print themselves back in
// a canonical form, which is what the front ends echo back to the user.
package parse

import (
	"fmt"
	"strconv"
	"strings"

	"src.numbox.dev/pkg/diag"
)

// Parse parses the given source into a list of statements. The returned error
// always has type *diag.Error if it is not nil.
func Parse(src Source) ([]Stmt, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	ps := &parser{src: src, toks: toks}
	return ps.parseStmts()
}

// ParseExpr parses the given source as a single expression.
func ParseExpr(src Source) (Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	ps := &parser{src: src, toks: toks}
	e, err := ps.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := ps.peek(); tok.code != eofCode {
		return nil, ps.errorf(tok, "unexpected %s", describe(tok))
	}
	return e, nil
}

type parser struct {
	src  Source
	toks []token
	pos  int
}

func (ps *parser) peek() token { return ps.toks[ps.pos] }

func (ps *parser) next() token {
	tok := ps.toks[ps.pos]
	if tok.code != eofCode {
		ps.pos++
	}
	return tok
}

// accept consumes the next token if it has the given code.
func (ps *parser) accept(code int) (token, bool) {
	if tok := ps.peek(); tok.code == code {
		return ps.next(), true
	}
	return token{}, false
}

func (ps *parser) expect(code int, what string) (token, error) {
	if tok, ok := ps.accept(code); ok {
		return tok, nil
	}
	tok := ps.peek()
	return tok, ps.errorf(tok, "expected %s, found %s", what, describe(tok))
}

func (ps *parser) errorf(r diag.Ranger, format string, args ...any) *diag.Error {
	return newError(ps.src, r, fmt.Sprintf(format, args...))
}

func describe(tok token) string {
	switch tok.code {
	case eofCode:
		return "end of input"
	case newlineCode:
		return "newline"
	default:
		return "'" + tok.text + "'"
	}
}

func (ps *parser) parseStmts() ([]Stmt, error) {
	var stmts []Stmt
	for {
		for ps.isSeparator(ps.peek()) {
			ps.next()
		}
		if ps.peek().code == eofCode {
			return stmts, nil
		}
		stmt, err := ps.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if tok := ps.peek(); !ps.isSeparator(tok) && tok.code != eofCode {
			return nil, ps.errorf(tok, "unexpected %s", describe(tok))
		}
	}
}

func (ps *parser) isSeparator(tok token) bool {
	return tok.code == newlineCode || tok.code == semicolonCode
}

func (ps *parser) parseStmt() (Stmt, error) {
	switch ps.peek().code {
	case letCode:
		return ps.parseLet()
	case fnCode:
		return ps.parseFn()
	case unitCode:
		return ps.parseUnit()
	case dimensionCode:
		return ps.parseDimension()
	case useCode:
		return ps.parseUse()
	}
	e, err := ps.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ExprStmt{e.Range(), e}, nil
}

func (ps *parser) parseName(what string) (token, error) {
	tok := ps.peek()
	if code, ok := keywords[tok.text]; ok && tok.code == code {
		return tok, ps.errorf(tok, "%s is a reserved word and cannot be used as %s", describe(tok), what)
	}
	return ps.expect(identCode, what)
}

// parseAnnotation parses an optional ": DIM".
func (ps *parser) parseAnnotation() (DimExpr, error) {
	if _, ok := ps.accept(colonCode); !ok {
		return nil, nil
	}
	return ps.parseDimExpr()
}

func (ps *parser) parseLet() (Stmt, error) {
	begin := ps.next()
	name, err := ps.parseName("variable name")
	if err != nil {
		return nil, err
	}
	dim, err := ps.parseAnnotation()
	if err != nil {
		return nil, err
	}
	if _, err := ps.expect(equalCode, "'='"); err != nil {
		return nil, err
	}
	value, err := ps.parseExpr()
	if err != nil {
		return nil, err
	}
	return &LetStmt{diag.MixedRanging(begin, value), name.text, dim, value}, nil
}

func (ps *parser) parseFn() (Stmt, error) {
	begin := ps.next()
	name, err := ps.parseName("function name")
	if err != nil {
		return nil, err
	}
	if _, err := ps.expect(lparenCode, "'('"); err != nil {
		return nil, err
	}
	var params []Param
	for ps.peek().code != rparenCode {
		if len(params) > 0 {
			if _, err := ps.expect(commaCode, "',' or ')'"); err != nil {
				return nil, err
			}
		}
		pname, err := ps.parseName("parameter name")
		if err != nil {
			return nil, err
		}
		for _, p := range params {
			if p.Name == pname.text {
				return nil, ps.errorf(pname, "duplicate parameter '%s'", pname.text)
			}
		}
		dim, err := ps.parseAnnotation()
		if err != nil {
			return nil, err
		}
		r := pname.Ranging
		if dim != nil {
			r = diag.MixedRanging(pname, dim)
		}
		params = append(params, Param{r, pname.text, dim})
	}
	ps.next()
	var ret DimExpr
	if _, ok := ps.accept(arrowCode); ok {
		if ret, err = ps.parseDimExpr(); err != nil {
			return nil, err
		}
	}
	if _, err := ps.expect(equalCode, "'='"); err != nil {
		return nil, err
	}
	body, err := ps.parseExpr()
	if err != nil {
		return nil, err
	}
	return &FnStmt{diag.MixedRanging(begin, body), name.text, params, ret, body}, nil
}

func (ps *parser) parseUnit() (Stmt, error) {
	begin := ps.next()
	name, err := ps.parseName("unit name")
	if err != nil {
		return nil, err
	}
	stmt := &UnitStmt{Ranging: diag.MixedRanging(begin, name), Name: name.text}
	if stmt.Dim, err = ps.parseAnnotation(); err != nil {
		return nil, err
	}
	if stmt.Dim != nil {
		stmt.Ranging = diag.MixedRanging(begin, stmt.Dim)
	}
	if _, ok := ps.accept(equalCode); ok {
		if stmt.Value, err = ps.parseExpr(); err != nil {
			return nil, err
		}
		stmt.Ranging = diag.MixedRanging(begin, stmt.Value)
	} else if stmt.Dim == nil {
		return nil, ps.errorf(stmt, "base unit '%s' needs a dimension annotation", name.text)
	}
	return stmt, nil
}

func (ps *parser) parseDimension() (Stmt, error) {
	begin := ps.next()
	name, err := ps.parseName("dimension name")
	if err != nil {
		return nil, err
	}
	stmt := &DimensionStmt{Ranging: diag.MixedRanging(begin, name), Name: name.text}
	if _, ok := ps.accept(equalCode); ok {
		if stmt.Def, err = ps.parseDimExpr(); err != nil {
			return nil, err
		}
		stmt.Ranging = diag.MixedRanging(begin, stmt.Def)
	}
	return stmt, nil
}

func (ps *parser) parseUse() (Stmt, error) {
	begin := ps.next()
	first, err := ps.expect(identCode, "module name")
	if err != nil {
		return nil, err
	}
	parts := []string{first.text}
	end := first
	for {
		if _, ok := ps.accept(pathSepCode); !ok {
			break
		}
		part, err := ps.expect(identCode, "module name")
		if err != nil {
			return nil, err
		}
		parts = append(parts, part.text)
		end = part
	}
	return &UseStmt{diag.MixedRanging(begin, end), strings.Join(parts, "::")}, nil
}

// Expressions.

func (ps *parser) parseExpr() (Expr, error) {
	x, err := ps.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		code := ps.peek().code
		if code != arrowCode && code != toCode {
			return x, nil
		}
		ps.next()
		target, err := ps.parseAdditive()
		if err != nil {
			return nil, err
		}
		x = &Convert{diag.MixedRanging(x, target), x, target}
	}
}

func (ps *parser) parseAdditive() (Expr, error) {
	x, err := ps.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOp
		switch ps.peek().code {
		case plusCode:
			op = Add
		case minusCode:
			op = Sub
		default:
			return x, nil
		}
		ps.next()
		y, err := ps.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		x = &Binary{Ranging: diag.MixedRanging(x, y), Op: op, L: x, R: y}
	}
}

func (ps *parser) parseMultiplicative() (Expr, error) {
	x, err := ps.parseImplicit()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOp
		switch ps.peek().code {
		case starCode:
			op = Mul
		case slashCode:
			op = Div
		default:
			return x, nil
		}
		ps.next()
		y, err := ps.parseImplicit()
		if err != nil {
			return nil, err
		}
		x = &Binary{Ranging: diag.MixedRanging(x, y), Op: op, L: x, R: y}
	}
}

// parseImplicit parses multiplication by juxtaposition, which binds tighter
// than explicit multiplication and division: "50 cm / 2 s" is
// "(50 cm) / (2 s)".
func (ps *parser) parseImplicit() (Expr, error) {
	x, err := ps.parseUnary()
	if err != nil {
		return nil, err
	}
	for startsOperand(ps.peek()) {
		y, err := ps.parseUnary()
		if err != nil {
			return nil, err
		}
		x = &Binary{Ranging: diag.MixedRanging(x, y), Op: Mul, L: x, R: y, Implicit: true}
	}
	return x, nil
}

func startsOperand(tok token) bool {
	return tok.code == numberCode || tok.code == identCode || tok.code == lparenCode
}

func (ps *parser) parseUnary() (Expr, error) {
	if tok, ok := ps.accept(minusCode); ok {
		x, err := ps.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Negate{diag.MixedRanging(tok, x), x}, nil
	}
	return ps.parsePower()
}

func (ps *parser) parsePower() (Expr, error) {
	x, err := ps.parsePrimary()
	if err != nil {
		return nil, err
	}
	if code := ps.peek().code; code != caretCode && code != starStarCode {
		return x, nil
	}
	ps.next()
	y, err := ps.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Binary{Ranging: diag.MixedRanging(x, y), Op: Pow, L: x, R: y}, nil
}

func (ps *parser) parsePrimary() (Expr, error) {
	tok := ps.peek()
	switch tok.code {
	case numberCode:
		ps.next()
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, ps.errorf(tok, "invalid number %s", tok.text)
		}
		return &Number{tok.Ranging, v, tok.text}, nil
	case identCode:
		ps.next()
		if _, ok := ps.accept(lparenCode); !ok {
			return &Ident{tok.Ranging, tok.text}, nil
		}
		var args []Expr
		for ps.peek().code != rparenCode {
			if len(args) > 0 {
				if _, err := ps.expect(commaCode, "',' or ')'"); err != nil {
					return nil, err
				}
			}
			arg, err := ps.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		end := ps.next()
		return &Call{diag.MixedRanging(tok, end), tok.text, args}, nil
	case lparenCode:
		ps.next()
		x, err := ps.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := ps.expect(rparenCode, "')'"); err != nil {
			return nil, err
		}
		return x, nil
	}
	return nil, ps.errorf(tok, "expected expression, found %s", describe(tok))
}

// Dimension expressions.

func (ps *parser) parseDimExpr() (DimExpr, error) {
	x, err := ps.parseDimFactor()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOp
		switch ps.peek().code {
		case starCode:
			op = Mul
		case slashCode:
			op = Div
		default:
			return x, nil
		}
		ps.next()
		y, err := ps.parseDimFactor()
		if err != nil {
			return nil, err
		}
		x = &DimBinary{diag.MixedRanging(x, y), op, x, y}
	}
}

func (ps *parser) parseDimFactor() (DimExpr, error) {
	var base DimExpr
	tok := ps.peek()
	switch tok.code {
	case identCode:
		ps.next()
		base = &DimName{tok.Ranging, tok.text}
	case lparenCode:
		ps.next()
		x, err := ps.parseDimExpr()
		if err != nil {
			return nil, err
		}
		if _, err := ps.expect(rparenCode, "')'"); err != nil {
			return nil, err
		}
		base = x
	default:
		return nil, ps.errorf(tok, "expected dimension, found %s", describe(tok))
	}
	if code := ps.peek().code; code != caretCode && code != starStarCode {
		return base, nil
	}
	ps.next()
	_, neg := ps.accept(minusCode)
	expTok, err := ps.expect(numberCode, "integer exponent")
	if err != nil {
		return nil, err
	}
	exp, err := strconv.Atoi(expTok.text)
	if err != nil {
		return nil, ps.errorf(expTok, "dimension exponent must be an integer, found %s", expTok.text)
	}
	if neg {
		exp = -exp
	}
	return &DimPow{diag.MixedRanging(base, expTok), base, exp}, nil
}
