package quant

import (
	"math"
	"strconv"
	"strings"
)

// Numbers with a magnitude in this range are formatted without an exponent.
const (
	minPlain = 1e-4
	maxPlain = 1e15
)

// FormatNumber formats v with up to 6 significant digits.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case v == 0:
		return "0"
	}
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 6, 64), 64)
	if abs := math.Abs(rounded); abs >= minPlain && abs < maxPlain {
		return strconv.FormatFloat(rounded, 'f', -1, 64)
	}
	s := strconv.FormatFloat(rounded, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := ""
	if exp[0] == '-' {
		sign = "-"
	}
	exp = strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + exp
}

// String returns the quantity as "<value> <unit>", or just the value for
// dimensionless quantities.
func (q Quantity) String() string {
	if q.Unit.IsScalar() {
		return FormatNumber(q.Value)
	}
	return FormatNumber(q.Value) + " " + q.Unit.String()
}
