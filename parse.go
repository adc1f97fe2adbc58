package ledger

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseAmount parses s against r's commodity registry, per the grammar in
// spec §4.3:
//
//	NUM[ ]SYM
//	SYM[ ]NUM
//
// NUM matches [-.,0-9]+; SYM is either an unquoted run of characters
// excluding whitespace, digits, '-', '.', or a double-quoted string. The
// commodity named by SYM is looked up (creating it if necessary), its
// display flags are OR-merged with whatever the literal's shape implies,
// and its recorded precision is ratcheted up to match the literal's
// precision if finer.
func (r *Registry) ParseAmount(s string) (Amount, error) {
	lit, err := splitAmountLiteral(s)
	if err != nil {
		return Amount{}, err
	}

	num := s[lit.numStart:lit.numEnd]
	sym := s[lit.symStart:lit.symEnd]

	mantissa, prec, flags := interpretNumber(num)
	if lit.suffixed {
		flags |= SUFFIXED
	}
	if lit.separated {
		flags |= SEPARATED
	}

	var c *Commodity
	if lit.quoted {
		c = r.FindQuoted(sym, true)
	} else {
		c = r.Find(sym, true)
	}
	c.mergeFlags(flags)
	c.raisePrecision(prec)

	return newAmount(newPayload(mantissa, prec), c), nil
}

// ParseAmount parses s against [DefaultRegistry].
func ParseAmount(s string) (Amount, error) {
	return DefaultRegistry.ParseAmount(s)
}

// MustParseAmount is like [ParseAmount] but panics on error. It is intended
// for tests and package-level variable initialization.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// amountLiteral records the byte ranges of the numeric and symbol runs
// within a parsed literal, plus the style bits implied by their order and
// spacing.
type amountLiteral struct {
	numStart, numEnd int
	symStart, symEnd int
	suffixed         bool // NUM precedes SYM
	separated        bool // whitespace appeared between NUM and SYM
	quoted           bool // SYM was written as a double-quoted string
}

// splitAmountLiteral locates the numeric and symbol runs within s, and
// reports whether the number precedes the symbol (suffixed form), whether
// whitespace separated them, and whether the symbol was double-quoted.
func splitAmountLiteral(s string) (amountLiteral, error) {
	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	if i >= len(s) {
		return amountLiteral{}, fmt.Errorf("parse %q: empty literal", s)
	}

	if s[i] == '"' {
		// SYM[ ]NUM, quoted symbol.
		start := i + 1
		end := strings.IndexByte(s[start:], '"')
		if end < 0 {
			return amountLiteral{}, fmt.Errorf("parse %q: %w", s, errUnterminatedSymbol)
		}
		symEnd := start + end
		j := symEnd + 1
		gapStart := j
		for j < len(s) && s[j] == ' ' {
			j++
		}
		return amountLiteral{
			numStart: j, numEnd: len(s),
			symStart: start, symEnd: symEnd,
			suffixed: false, quoted: true,
			separated: j > gapStart,
		}, nil
	}

	if isNumberStart(s[i]) {
		// NUM[ ]SYM.
		numStart := i
		j := i
		for j < len(s) && isNumberByte(s[j]) {
			j++
		}
		numEnd := j
		gapStart := j
		for j < len(s) && s[j] == ' ' {
			j++
		}
		separated := j > gapStart
		if j < len(s) && s[j] == '"' {
			start := j + 1
			end := strings.IndexByte(s[start:], '"')
			if end < 0 {
				return amountLiteral{}, fmt.Errorf("parse %q: %w", s, errUnterminatedSymbol)
			}
			return amountLiteral{
				numStart: numStart, numEnd: numEnd,
				symStart: start, symEnd: start + end,
				suffixed: true, quoted: true, separated: separated,
			}, nil
		}
		return amountLiteral{
			numStart: numStart, numEnd: numEnd,
			symStart: j, symEnd: len(s),
			suffixed: true, quoted: false, separated: separated,
		}, nil
	}

	// SYM[ ]NUM, unquoted symbol.
	j := i
	for j < len(s) && !isNumberStart(s[j]) && s[j] != ' ' {
		j++
	}
	symStart, symEnd := i, j
	gapStart := j
	for j < len(s) && s[j] == ' ' {
		j++
	}
	return amountLiteral{
		numStart: j, numEnd: len(s),
		symStart: symStart, symEnd: symEnd,
		suffixed: false, quoted: false,
		separated: j > gapStart,
	}, nil
}

func isNumberStart(b byte) bool {
	return b == '-' || b == '.' || b == ',' || (b >= '0' && b <= '9')
}

func isNumberByte(b byte) bool {
	return isNumberStart(b)
}

// interpretNumber derives the mantissa, precision, and style flags implied
// by a numeric literal, per spec §4.3's last_comma/last_period rules.
func interpretNumber(num string) (*big.Int, uint8, Flags) {
	lastComma := strings.LastIndexByte(num, ',')
	lastPeriod := strings.LastIndexByte(num, '.')

	var prec int
	var flags Flags
	switch {
	case lastComma >= 0 && lastPeriod >= 0:
		flags |= THOUSANDS
		if lastComma > lastPeriod {
			flags |= EUROPEAN
			prec = len(num) - lastComma - 1
		} else {
			prec = len(num) - lastPeriod - 1
		}
	case lastComma >= 0:
		flags |= EUROPEAN
		prec = len(num) - lastComma - 1
	case lastPeriod >= 0:
		prec = len(num) - lastPeriod - 1
	default:
		prec = 0
	}

	stripped := strings.Map(func(r rune) rune {
		if r == ',' || r == '.' {
			return -1
		}
		return r
	}, num)

	mantissa := new(big.Int)
	mantissa.SetString(stripped, 10)
	return mantissa, uint8(prec), flags
}
