package ledger

import (
	"fmt"
	"math/big"
)

// AddAssign adds b into a in place, mirroring operator+= in the original
// source. If a is empty it adopts b's value and commodity outright. The
// same commodity-matching rule as [Amount.Add] applies. On error a is left
// unchanged, satisfying the strong exception safety guarantee of spec §7.
func (a *Amount) AddAssign(b Amount) error {
	if a.IsEmpty() {
		b.payload.retain()
		*a = b
		return nil
	}
	if b.IsEmpty() {
		return nil
	}
	if !sameCommodity(a.commodity, b.commodity) {
		return fmt.Errorf("add %s + %s: %w", commoditySymbol(a.commodity), commoditySymbol(b.commodity), errCommodityMismatch)
	}
	prec := max(a.payload.prec, b.payload.prec)
	p := ensureExclusive(a.payload)
	if err := p.rescale(int(prec)); err != nil {
		return err
	}
	bm := rescaleMantissa(b.payload.mantissa, int(b.payload.prec), int(prec))
	p.mantissa.Add(p.mantissa, bm)
	a.payload = p
	return nil
}

// SubAssign subtracts b from a in place, mirroring operator-=. If a is
// empty it adopts -b. The same commodity-matching rule as [Amount.Sub]
// applies.
func (a *Amount) SubAssign(b Amount) error {
	if a.IsEmpty() {
		*a = b.Neg()
		return nil
	}
	if b.IsEmpty() {
		return nil
	}
	if !sameCommodity(a.commodity, b.commodity) {
		return fmt.Errorf("subtract %s - %s: %w", commoditySymbol(a.commodity), commoditySymbol(b.commodity), errCommodityMismatch)
	}
	prec := max(a.payload.prec, b.payload.prec)
	p := ensureExclusive(a.payload)
	if err := p.rescale(int(prec)); err != nil {
		return err
	}
	bm := rescaleMantissa(b.payload.mantissa, int(b.payload.prec), int(prec))
	p.mantissa.Sub(p.mantissa, bm)
	a.payload = p
	return nil
}

// MulAssign multiplies a by b in place, mirroring operator*=, with the same
// precision-sum-then-cap rule as [Amount.Mul]. If either side is empty, a
// becomes empty.
func (a *Amount) MulAssign(b Amount) error {
	if a.IsEmpty() || b.IsEmpty() {
		*a = Amount{}
		return nil
	}
	raw := int(a.payload.prec) + int(b.payload.prec)
	p := ensureExclusive(a.payload)
	p.mantissa.Mul(p.mantissa, b.payload.mantissa)
	cap := int(a.commodity.precision) + 6
	mantissa, prec, err := roundFromRaw(p.mantissa, raw, min(raw, cap))
	if err != nil {
		return fmt.Errorf("multiply: %w", err)
	}
	p.mantissa = mantissa
	p.prec = prec
	a.payload = p
	return nil
}

// DivAssign divides a by b in place, mirroring operator/=, with the same
// guard-digit and cap rule as [Amount.Div]. Fails with an error wrapping
// [errDivideByZero] if b is empty, leaving a unchanged.
func (a *Amount) DivAssign(b Amount) error {
	if b.IsEmpty() {
		return fmt.Errorf("divide %s: %w", commoditySymbol(a.commodity), errDivideByZero)
	}
	if a.IsEmpty() {
		return nil
	}
	guard := int(b.payload.prec) + 6
	p := ensureExclusive(a.payload)
	p.mantissa.Mul(p.mantissa, pow10(guard))
	p.mantissa.Quo(p.mantissa, b.payload.mantissa)
	raw := int(a.payload.prec) + 6
	cap := int(a.commodity.precision) + 6
	mantissa, prec, err := roundFromRaw(p.mantissa, raw, min(raw, cap))
	if err != nil {
		return fmt.Errorf("divide: %w", err)
	}
	p.mantissa = mantissa
	p.prec = prec
	a.payload = p
	return nil
}

// Negate flips a's sign in place, mirroring negate().
func (a *Amount) Negate() {
	if a.IsEmpty() {
		return
	}
	p := ensureExclusive(a.payload)
	p.mantissa.Neg(p.mantissa)
	a.payload = p
}

// SetInt64 overwrites a with a fresh null-commodity integer value, mirroring
// operator=(int).
func (a *Amount) SetInt64(v int64) {
	a.payload = newPayloadFromInt64(v)
	a.commodity = DefaultRegistry.null
}

// SetFloat64 overwrites a with v treated as exact (prec = 0), mirroring
// operator=(double); see [NewAmountFromFloat64] for the same rule applied
// to a fresh value.
func (a *Amount) SetFloat64(v float64) {
	bi, _ := big.NewFloat(v).Int(nil)
	a.payload = newPayload(bi, 0)
	a.commodity = DefaultRegistry.null
}

// RoundAssign rounds a to prec digits in place, half-away-from-zero.
func (a *Amount) RoundAssign(prec uint8) {
	if a.IsEmpty() {
		return
	}
	p := ensureExclusive(a.payload)
	p.round(prec)
	a.payload = p
}
