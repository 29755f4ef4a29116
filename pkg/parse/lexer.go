package parse

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"

	"src.numbox.dev/pkg/diag"
)

// Token codes. They start at 1 so that they never collide with the codes
// parsly reserves.
const (
	blankCode = iota + 1
	newlineCode
	numberCode
	identCode
	arrowCode
	starStarCode
	pathSepCode
	plusCode
	minusCode
	starCode
	slashCode
	caretCode
	lparenCode
	rparenCode
	commaCode
	colonCode
	equalCode
	semicolonCode

	// Keywords are lexed as identifiers and reclassified.
	letCode
	fnCode
	unitCode
	dimensionCode
	useCode
	toCode

	eofCode
)

var (
	blankToken   = parsly.NewToken(blankCode, "blank", &blankMatcher{})
	newlineToken = parsly.NewToken(newlineCode, "newline", matcher.NewByte('\n'))
	numberToken  = parsly.NewToken(numberCode, "number", &numberMatcher{})
	identToken   = parsly.NewToken(identCode, "identifier", &identMatcher{})

	// Order matters: parsly picks the first token that matches, so longer
	// operators precede their prefixes.
	lexTokens = []*parsly.Token{
		newlineToken,
		numberToken,
		identToken,
		parsly.NewToken(arrowCode, "'->'", matcher.NewFragment("->")),
		parsly.NewToken(starStarCode, "'**'", matcher.NewFragment("**")),
		parsly.NewToken(pathSepCode, "'::'", matcher.NewFragment("::")),
		parsly.NewToken(plusCode, "'+'", matcher.NewByte('+')),
		parsly.NewToken(minusCode, "'-'", matcher.NewByte('-')),
		parsly.NewToken(starCode, "'*'", matcher.NewByte('*')),
		parsly.NewToken(slashCode, "'/'", matcher.NewByte('/')),
		parsly.NewToken(caretCode, "'^'", matcher.NewByte('^')),
		parsly.NewToken(lparenCode, "'('", matcher.NewByte('(')),
		parsly.NewToken(rparenCode, "')'", matcher.NewByte(')')),
		parsly.NewToken(commaCode, "','", matcher.NewByte(',')),
		parsly.NewToken(colonCode, "':'", matcher.NewByte(':')),
		parsly.NewToken(equalCode, "'='", matcher.NewByte('=')),
		parsly.NewToken(semicolonCode, "';'", matcher.NewByte(';')),
	}
)

var keywords = map[string]int{
	"let":       letCode,
	"fn":        fnCode,
	"unit":      unitCode,
	"dimension": dimensionCode,
	"use":       useCode,
	"to":        toCode,
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}

type token struct {
	code int
	text string
	diag.Ranging
}

// lex splits code into tokens. Newlines inside parentheses are dropped, so
// that an expression may span several lines when parenthesized. The returned
// slice always ends with an eofCode token.
func lex(src Source) ([]token, error) {
	cursor := parsly.NewCursor(src.Name, []byte(src.Code), 0)
	var toks []token
	depth := 0
	for {
		cursor.MatchOne(blankToken)
		if !cursor.HasMore() {
			toks = append(toks, token{code: eofCode, Ranging: diag.PointRanging(cursor.Pos)})
			return toks, nil
		}
		from := cursor.Pos
		match := cursor.MatchAny(lexTokens...)
		if cursor.Pos == from {
			r, size := utf8.DecodeRuneInString(src.Code[from:])
			return nil, newError(src, diag.Ranging{From: from, To: from + size},
				fmt.Sprintf("unexpected character %q", r))
		}
		tok := token{code: match.Code, text: match.Text(cursor),
			Ranging: diag.Ranging{From: from, To: cursor.Pos}}
		switch tok.code {
		case identCode:
			if code, ok := keywords[tok.text]; ok {
				tok.code = code
			}
		case lparenCode:
			depth++
		case rparenCode:
			if depth > 0 {
				depth--
			}
		case newlineCode:
			if depth > 0 {
				continue
			}
		}
		toks = append(toks, tok)
	}
}

// blankMatcher matches horizontal whitespace and comments. Newlines are not
// blank, since they separate statements.
type blankMatcher struct{}

func (m *blankMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	i := pos
	for i < size {
		switch input[i] {
		case ' ', '\t', '\r':
			i++
		case '#':
			for i < size && input[i] != '\n' {
				i++
			}
		default:
			return i - pos
		}
	}
	return i - pos
}

// numberMatcher matches decimal numbers like 12, 1.5, .5 and 6.02e23. An 'e'
// is only consumed when followed by an exponent, so that "2e" lexes as a
// number and an identifier.
type numberMatcher struct{}

func (m *numberMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	i := pos
	digits := 0
	for i < size && isDigit(input[i]) {
		i++
		digits++
	}
	if i < size && input[i] == '.' {
		j := i + 1
		frac := 0
		for j < size && isDigit(input[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < size && (input[i] == 'e' || input[i] == 'E') {
		j := i + 1
		if j < size && (input[j] == '+' || input[j] == '-') {
			j++
		}
		if j < size && isDigit(input[j]) {
			for j < size && isDigit(input[j]) {
				j++
			}
			i = j
		}
	}
	return i - pos
}

// identMatcher matches identifiers. Besides letters, digits and underscores,
// a few symbols commonly used in unit names are allowed.
type identMatcher struct{}

func (m *identMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	i := pos
	for i < size {
		r, n := utf8.DecodeRune(input[i:size])
		if !isIdentRune(r) || (i == pos && unicode.IsDigit(r)) {
			break
		}
		i += n
	}
	return i - pos
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '°' || r == '%' || r == '′' || r == '″' ||
		unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IdentAt finds the identifier in code that contains the byte index idx or
// ends right before it. Digits at the start of the run belong to a number
// and are not part of the identifier.
func IdentAt(code string, idx int) (string, diag.Ranging, bool) {
	if idx < 0 || idx > len(code) {
		return "", diag.Ranging{}, false
	}
	from := idx
	for from > 0 {
		r, n := utf8.DecodeLastRuneInString(code[:from])
		if !isIdentRune(r) {
			break
		}
		from -= n
	}
	to := idx
	for to < len(code) {
		r, n := utf8.DecodeRuneInString(code[to:])
		if !isIdentRune(r) {
			break
		}
		to += n
	}
	for from < to {
		r, n := utf8.DecodeRuneInString(code[from:])
		if !unicode.IsDigit(r) {
			break
		}
		from += n
	}
	if from == to {
		return "", diag.Ranging{}, false
	}
	return code[from:to], diag.Ranging{From: from, To: to}, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func newError(src Source, r diag.Ranger, msg string) *diag.Error {
	return &diag.Error{
		Type:    "parse error",
		Message: msg,
		Context: *diag.NewContext(src.Name, src.Code, r),
	}
}
