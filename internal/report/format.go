package report

import (
	"math"
	"strconv"
	"strings"
)

// Round formats n with scale decimals using half-even rounding on the
// shortest decimal representation of n. With roundIfInt, values that round to
// an integer are printed without a fractional part.
func Round(n float64, scale int, roundIfInt bool) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	if scale < 0 {
		scale = 0
	}

	digits := strconv.FormatFloat(math.Abs(n), 'f', -1, 64)
	intPart, fracPart, _ := strings.Cut(digits, ".")

	if len(fracPart) > scale {
		kept := intPart + fracPart[:scale]
		if roundsUp(kept, fracPart[scale:]) {
			kept = increment(kept)
		}
		intPart, fracPart = kept[:len(kept)-scale], kept[len(kept)-scale:]
	} else {
		fracPart += strings.Repeat("0", scale-len(fracPart))
	}

	negative := n < 0 && strings.Trim(intPart+fracPart, "0") != ""
	if roundIfInt && strings.Trim(fracPart, "0") == "" {
		fracPart = ""
	}

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(intPart)
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

// roundsUp applies half-even to the dropped digits
func roundsUp(kept, dropped string) bool {
	switch {
	case dropped[0] > '5':
		return true
	case dropped[0] < '5':
		return false
	case strings.Trim(dropped[1:], "0") != "":
		return true
	}
	last := kept[len(kept)-1]
	return (last-'0')%2 == 1
}

// increment adds one to a decimal digit string
func increment(digits string) string {
	b := []byte(digits)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < '9' {
			b[i]++
			return string(b)
		}
		b[i] = '0'
	}
	return "1" + string(b)
}
