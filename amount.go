package ledger

import (
	"fmt"
	"math/big"
)

// Amount is a commodity-tagged exact decimal value: a pair of a payload (or
// the distinguished empty state) and a commodity reference. The zero value
// is the empty Amount, the additive identity.
//
// Amount is a value type: copying an Amount copies the handle, not the
// underlying payload. Such a copy is safe with the pure arithmetic methods,
// which never mutate their receiver or argument; before mutating either copy
// through the in-place API (amount_mutate.go), see [Amount.Clone].
type Amount struct {
	payload   *payload
	commodity *Commodity
}

// Empty is the additive-identity Amount: no payload, no commodity.
var Empty Amount

// IsEmpty reports whether a is the empty Amount.
func (a Amount) IsEmpty() bool { return a.payload == nil }

// Commodity returns a's commodity, or nil if a is empty.
func (a Amount) Commodity() *Commodity { return a.commodity }

// Precision returns a's payload precision, or 0 if a is empty.
func (a Amount) Precision() uint8 {
	if a.payload == nil {
		return 0
	}
	return a.payload.prec
}

// Mantissa returns a's unscaled integer mantissa as a new *big.Int (safe
// for the caller to mutate), or zero if a is empty.
func (a Amount) Mantissa() *big.Int {
	if a.payload == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.payload.mantissa)
}

// Clone returns an Amount with the same value as a, backed by an
// independently owned payload: mutating either one afterwards through the
// in-place API (amount_mutate.go) never affects the other.
//
// This matters because a itself is an ordinary Go value: a plain `b := a`
// copies the handle but not the underlying payload, and this package's
// payload refcount -- unlike the original's RAII copy constructor -- has no
// way to observe that copy. ensureExclusive only protects against aliasing
// this package itself created (e.g. a shared boolean-true constant, or a
// back-reference resolved from binary.go); it cannot protect against a
// caller's own `b := a` followed by a.AddAssign(...). Call Clone first
// whenever a plain assignment needs to survive a subsequent in-place
// mutation of the original.
func (a Amount) Clone() Amount {
	if a.IsEmpty() {
		return Empty
	}
	return newAmount(a.payload.clone(), a.commodity)
}

// newAmount builds a non-empty Amount from a payload and a commodity
// reference. It does not retain the payload: the new handle takes over the
// reference the caller already holds (a fresh payload's initial refcount of
// 1, or one the caller obtained with retain).
func newAmount(p *payload, c *Commodity) Amount {
	return Amount{payload: p, commodity: c}
}

// NewAmountFromInt64 returns a non-empty, null-commodity Amount equal to v,
// mirroring the original amount_t(int) / amount_t(unsigned int)
// constructors.
func NewAmountFromInt64(v int64) Amount {
	return newAmount(newPayloadFromInt64(v), DefaultRegistry.null)
}

// NewAmountFromBool returns the shared boolean Amount: NewAmountFromBool(true)
// shares the process-wide static payload representing 1 (spec §3); false
// returns a fresh zero-valued Amount. Both carry the null commodity.
func NewAmountFromBool(b bool) Amount {
	if !b {
		return newAmount(newPayloadFromInt64(0), DefaultRegistry.null)
	}
	return newAmount(truePayload.retain(), DefaultRegistry.null)
}

// NewAmountFromFloat64 returns a non-empty, null-commodity Amount holding
// the integer part of v (any fractional part is truncated toward zero),
// with prec = 0, per the Open Question
// resolution in spec §9 (the original leaves a TODO here; this package
// treats the supplied float as already being the intended integer value).
//
// Callers wanting fractional floats represented exactly should instead
// parse a textual literal with [ParseAmount], which derives prec from the
// decimal point position rather than truncating.
func NewAmountFromFloat64(v float64) Amount {
	bi, _ := big.NewFloat(v).Int(nil)
	return newAmount(newPayload(bi, 0), DefaultRegistry.null)
}

// sameCommodity reports whether a and b reference the identical commodity,
// comparing by symbol so Amounts built from different Registry values but
// naming the same commodity still compare equal.
func sameCommodity(a, b *Commodity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.symbol == b.symbol
}

func commoditySymbol(c *Commodity) string {
	if c == nil {
		return "<empty>"
	}
	return c.symbol
}

// Add returns a+b. The empty Amount behaves as zero: if either operand is
// empty, the other is returned unchanged. Otherwise, if both are non-empty
// and name different commodities, Add fails with an error wrapping
// [errCommodityMismatch] -- the null commodity does not wildcard here; it
// only matches itself.
func (a Amount) Add(b Amount) (Amount, error) {
	if a.IsEmpty() {
		b.payload.retain()
		return b, nil
	}
	if b.IsEmpty() {
		a.payload.retain()
		return a, nil
	}
	if !sameCommodity(a.commodity, b.commodity) {
		return Amount{}, fmt.Errorf("add %s + %s: %w", commoditySymbol(a.commodity), commoditySymbol(b.commodity), errCommodityMismatch)
	}
	prec := max(a.payload.prec, b.payload.prec)
	am := rescaleMantissa(a.payload.mantissa, int(a.payload.prec), int(prec))
	bm := rescaleMantissa(b.payload.mantissa, int(b.payload.prec), int(prec))
	sum := new(big.Int).Add(am, bm)
	return newAmount(newPayload(sum, prec), a.commodity), nil
}

// Sub returns a-b. Per spec §4.2, subtracting from an empty left operand
// negates the right operand; subtracting an empty right operand returns the
// left operand unchanged. Otherwise the same commodity-matching rule as Add
// applies.
func (a Amount) Sub(b Amount) (Amount, error) {
	if a.IsEmpty() {
		return b.Neg(), nil
	}
	if b.IsEmpty() {
		a.payload.retain()
		return a, nil
	}
	if !sameCommodity(a.commodity, b.commodity) {
		return Amount{}, fmt.Errorf("subtract %s - %s: %w", commoditySymbol(a.commodity), commoditySymbol(b.commodity), errCommodityMismatch)
	}
	prec := max(a.payload.prec, b.payload.prec)
	am := rescaleMantissa(a.payload.mantissa, int(a.payload.prec), int(prec))
	bm := rescaleMantissa(b.payload.mantissa, int(b.payload.prec), int(prec))
	diff := new(big.Int).Sub(am, bm)
	return newAmount(newPayload(diff, prec), a.commodity), nil
}

// Mul returns a*b. The empty Amount behaves as zero, so a*empty and
// empty*b are both empty. Otherwise the result's precision is the sum of
// the operand precisions, rounded (half-away-from-zero) down to the left
// operand's commodity display precision plus six guard digits if it would
// otherwise exceed that bound. The result carries the left operand's
// commodity.
func (a Amount) Mul(b Amount) (Amount, error) {
	if a.IsEmpty() || b.IsEmpty() {
		return Amount{}, nil
	}
	raw := int(a.payload.prec) + int(b.payload.prec)
	mantissa := new(big.Int).Mul(a.payload.mantissa, b.payload.mantissa)
	cap := int(a.commodity.precision) + 6
	mantissa, prec, err := roundFromRaw(mantissa, raw, min(raw, cap))
	if err != nil {
		return Amount{}, fmt.Errorf("multiply: %w", err)
	}
	return newAmount(newPayload(mantissa, prec), a.commodity), nil
}

// Div returns a/b. Fails with an error wrapping [errDivideByZero] if b is
// empty. Otherwise the dividend mantissa is first scaled up by
// 10^(b.prec+6), then integer-divided (truncating) by the divisor
// mantissa; the raw result precision is a.prec+6, capped the same way as
// Mul. The result carries the left operand's commodity.
func (a Amount) Div(b Amount) (Amount, error) {
	if b.IsEmpty() {
		return Amount{}, fmt.Errorf("divide %s: %w", commoditySymbol(a.commodity), errDivideByZero)
	}
	if a.IsEmpty() {
		return Amount{}, nil
	}
	guard := int(b.payload.prec) + 6
	scaled := new(big.Int).Mul(a.payload.mantissa, pow10(guard))
	quotient := new(big.Int).Quo(scaled, b.payload.mantissa)
	raw := int(a.payload.prec) + 6
	cap := int(a.commodity.precision) + 6
	mantissa, prec, err := roundFromRaw(quotient, raw, min(raw, cap))
	if err != nil {
		return Amount{}, fmt.Errorf("divide: %w", err)
	}
	return newAmount(newPayload(mantissa, prec), a.commodity), nil
}

// Neg returns -a. The empty Amount negates to itself.
func (a Amount) Neg() Amount {
	if a.IsEmpty() {
		return Amount{}
	}
	negated := new(big.Int).Neg(a.payload.mantissa)
	return newAmount(newPayload(negated, a.payload.prec), a.commodity)
}

// Round returns a rounded to prec digits using half-away-from-zero
// rounding. If a's current precision is already <= prec, the returned
// Amount shares a's payload (retained, not cloned).
func (a Amount) Round(prec uint8) Amount {
	if a.IsEmpty() || a.payload.prec <= prec {
		a.payload.retain()
		return a
	}
	rounded := roundMantissa(a.payload.mantissa, int(a.payload.prec), int(prec))
	return newAmount(newPayload(rounded, prec), a.commodity)
}

// Cmp compares a and b. If both are non-empty and name different,
// non-null commodities, Amounts are incomparable: Cmp returns 0 but callers
// must check [Amount.Comparable] to distinguish "equal" from "incomparable".
// Otherwise both sides are rescaled to their common higher precision and
// their mantissas compared; the empty Amount compares as zero.
func (a Amount) Cmp(b Amount) int {
	if a.IsEmpty() && b.IsEmpty() {
		return 0
	}
	if a.IsEmpty() {
		return -b.signAtDisplayPrec()
	}
	if b.IsEmpty() {
		return a.signAtDisplayPrec()
	}
	if !a.commodity.IsNull() && !b.commodity.IsNull() && !sameCommodity(a.commodity, b.commodity) {
		return 0
	}
	prec := max(a.payload.prec, b.payload.prec)
	am := rescaleMantissa(a.payload.mantissa, int(a.payload.prec), int(prec))
	bm := rescaleMantissa(b.payload.mantissa, int(b.payload.prec), int(prec))
	return am.Cmp(bm)
}

// signAtDisplayPrec is a convenience for comparing a non-empty Amount
// against the empty (zero) Amount: its sign is simply the mantissa's sign,
// since zero at any precision is still zero.
func (a Amount) signAtDisplayPrec() int {
	return a.payload.mantissa.Sign()
}

// Comparable reports whether a and b are ordering-comparable: false only
// when both are non-empty and name distinct, non-null commodities (spec
// §4.2, §9). When Comparable is false, every predicate derived from Cmp
// must be treated as false rather than as a definite ordering.
func (a Amount) Comparable(b Amount) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return true
	}
	if a.commodity.IsNull() || b.commodity.IsNull() {
		return true
	}
	return sameCommodity(a.commodity, b.commodity)
}

// Equal reports whether a and b are comparable and equal.
func (a Amount) Equal(b Amount) bool { return a.Comparable(b) && a.Cmp(b) == 0 }

// Less reports whether a and b are comparable and a < b.
func (a Amount) Less(b Amount) bool { return a.Comparable(b) && a.Cmp(b) < 0 }

// Greater reports whether a and b are comparable and a > b.
func (a Amount) Greater(b Amount) bool { return a.Comparable(b) && a.Cmp(b) > 0 }

// CmpInt compares a against a bare integer, per the AMOUNT_CMP_INT family in
// the original source: when num is 0 this compares the mantissa's sign
// directly without materializing an Amount; otherwise it constructs a
// null-commodity Amount from num and recurses through Cmp.
func (a Amount) CmpInt(num int64) int {
	if num == 0 {
		if a.IsEmpty() {
			return 0
		}
		return a.payload.mantissa.Sign()
	}
	return a.Cmp(NewAmountFromInt64(num))
}

// Bool reports whether a is truthy: non-empty and, after truncation to its
// commodity's display precision, its mantissa is non-zero. For example
// "0.0001 USD" with display precision 2 is false.
func (a Amount) Bool() bool {
	if a.IsEmpty() {
		return false
	}
	prec := a.payload.prec
	if a.commodity != nil && a.commodity.precision < prec {
		prec = a.commodity.precision
	}
	truncated := rescaleMantissa(a.payload.mantissa, int(a.payload.prec), int(prec))
	return truncated.Sign() != 0
}

// Valid is the debugging contract from spec §7: true iff a holds a payload
// exactly when it holds a commodity, and (when it holds a payload) the
// payload's refcount is at least 1.
func (a Amount) Valid() bool {
	if (a.payload == nil) != (a.commodity == nil) {
		return false
	}
	if a.payload != nil && a.payload.refs < 1 {
		return false
	}
	return true
}

