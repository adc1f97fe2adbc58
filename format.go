package ledger

import (
	"fmt"
	"math/big"
	"strings"
)

// String formats a per spec §4.4: the result is always re-parseable by
// [ParseAmount]. The empty Amount formats as "0".
func (a Amount) String() string {
	if a.IsEmpty() {
		return "0"
	}
	return a.render()
}

// Format implements fmt.Formatter so that %v, %s, and %q all route through
// the same rendering as String, and so that width/fill/'-' flags apply to
// the whole rendered amount rather than to a fragment of it. The entire
// result is written in a single call, per spec §4.4's requirement that
// external width formatting see the complete string.
func (a Amount) Format(f fmt.State, verb rune) {
	s := a.String()
	if verb == 'q' {
		s = fmt.Sprintf("%q", s)
	}

	if width, ok := f.Width(); ok && width > len(s) {
		pad := strings.Repeat(" ", width-len(s))
		if f.Flag('-') {
			s += pad
		} else {
			s = pad + s
		}
	}

	fmt.Fprint(f, s)
}

// render performs the actual rendering algorithm from spec §4.4 for a
// non-empty Amount.
func (a Amount) render() string {
	c := a.commodity
	prec := c.precision

	var mantissa *big.Int
	switch {
	case a.payload.prec == prec:
		mantissa = a.payload.mantissa
	case a.payload.prec > prec:
		mantissa = roundMantissa(a.payload.mantissa, int(a.payload.prec), int(prec))
	default:
		mantissa = rescaleMantissa(a.payload.mantissa, int(a.payload.prec), int(prec))
	}

	negative := mantissa.Sign() < 0
	abs := new(big.Int).Abs(mantissa)

	var quotient, remainder big.Int
	if prec > 0 {
		quotient.QuoRem(abs, pow10(int(prec)), &remainder)
	} else {
		quotient.Set(abs)
	}

	var b strings.Builder

	symbol := c.symbol
	if c.quoted {
		symbol = `"` + symbol + `"`
	}

	if !c.flags.Has(SUFFIXED) {
		b.WriteString(symbol)
		if c.flags.Has(SEPARATED) {
			b.WriteByte(' ')
		}
	}

	if negative {
		b.WriteByte('-')
	}

	b.WriteString(formatIntegerPart(&quotient, c.flags))

	if prec > 0 {
		if c.flags.Has(EUROPEAN) {
			b.WriteByte(',')
		} else {
			b.WriteByte('.')
		}
		b.WriteString(zeroPad(&remainder, int(prec)))
	}

	if c.flags.Has(SUFFIXED) {
		if c.flags.Has(SEPARATED) {
			b.WriteByte(' ')
		}
		b.WriteString(symbol)
	}

	return b.String()
}

// formatIntegerPart renders a non-negative integer, grouping digits in
// threes from the right when THOUSANDS is set. The grouping separator is
// '.' under EUROPEAN, ',' otherwise.
func formatIntegerPart(n *big.Int, flags Flags) string {
	s := n.String()
	if !flags.Has(THOUSANDS) {
		return s
	}
	sep := ","
	if flags.Has(EUROPEAN) {
		sep = "."
	}

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var groups []string
	for len(s) > 3 {
		groups = append([]string{s[len(s)-3:]}, groups...)
		s = s[:len(s)-3]
	}
	groups = append([]string{s}, groups...)

	out := strings.Join(groups, sep)
	if neg {
		out = "-" + out
	}
	return out
}

// zeroPad renders a non-negative integer left-padded with zeros to width
// digits, for the fractional part of a formatted Amount.
func zeroPad(n *big.Int, width int) string {
	s := n.String()
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
