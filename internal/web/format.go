package web

import (
	"math"
	"strconv"
	"strings"
)

// Display conventions: monetary values get two decimals and thousands
// separators; quantities can be tiny fractions of a coin, so anything below
// the threshold switches to scientific notation instead of rounding to zero.

const (
	quantityExponentThreshold = 0.01
	preciseExponentThreshold  = 0.001
)

// FormatMoney renders a monetary value as e.g. "1,234,567.89".
func FormatMoney(v float64) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)

	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

// FormatQuantity renders a position quantity with three decimals, switching
// to scientific notation below 0.01.
func FormatQuantity(v float64) string {
	if v > 0 && v < quantityExponentThreshold {
		return strconv.FormatFloat(v, 'e', 2, 64)
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// FormatPreciseQuantity is FormatQuantity with six decimals and a 0.001
// scientific-notation threshold, for sub-cent sizing displays.
func FormatPreciseQuantity(v float64) string {
	if v > 0 && v < preciseExponentThreshold {
		return strconv.FormatFloat(v, 'e', 2, 64)
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
