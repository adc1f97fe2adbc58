package ledger

import (
	"math/big"

	"github.com/numeraire/ledger/internal/trace"
)

// payloadFlags is a bitset carried on a payload. It currently only tracks
// whether the payload was decoded into a reader-owned arena (see binary.go).
// release treats such payloads like any other; the flag is what
// [Registry.PromoteArenaPrices] checks to find price-history payloads to clone.
type payloadFlags uint8

const (
	// flagBulkAlloc marks a payload decoded from a binary stream directly
	// into a reader-owned arena. Such payloads stay reachable from the
	// arena's slice of payloads for as long as the arena lives; see [Arena]
	// and [Registry.PromoteArenaPrices].
	flagBulkAlloc payloadFlags = 1 << iota
)

// payload is the BigDecimal: an owned arbitrary-precision signed mantissa
// plus an unsigned decimal precision. It is shared by value across Amount
// handles and mutated only under exclusive ownership (copy-on-write).
//
// payload has no destructor in the C++ sense -- Go's garbage collector
// reclaims the mantissa's storage once the last referencing payload pointer
// is dropped. refs is kept anyway, because it drives the copy-on-write
// decision in ensureExclusive. The separate index field records that a
// payload has already been written during binary serialization.
type payload struct {
	mantissa *big.Int
	prec     uint8
	refs     int
	flags    payloadFlags
	index    uint32
}

// tracer is the package-wide payload lifecycle tracer. It defaults to a
// discarding implementation; code inside this package (such as its tests)
// that wants visibility into allocation/rounding behavior can replace it
// with trace.NewStderr(...).
var tracer = trace.Disabled()

// truePayload is the shared static payload representing the integer 1. It
// backs the boolean "true" Amount for the lifetime of the process, exactly
// as the original static bigint_t true_value does.
var truePayload = &payload{mantissa: big.NewInt(1), prec: 0, refs: 1}

func newPayload(mantissa *big.Int, prec uint8) *payload {
	tracer.Ctor("bigint_t", prec)
	return &payload{mantissa: mantissa, prec: prec, refs: 1}
}

func newPayloadFromInt64(v int64) *payload {
	return newPayload(big.NewInt(v), 0)
}

// clone returns an independently owned copy of p, with its own refcount of
// 1. The BULK_ALLOC flag is never copied: a clone is always heap-allocated
// by this package, never arena-backed. The serialization index is reset to
// zero, since the clone has not itself been written yet.
func (p *payload) clone() *payload {
	tracer.Ctor("bigint_t", p.prec)
	return &payload{mantissa: new(big.Int).Set(p.mantissa), prec: p.prec, refs: 1}
}

// retain increments p's refcount and returns p, for use when a second Amount
// (or a commodity's price history) is made to reference an existing payload.
func (p *payload) retain() *payload {
	if p != nil {
		p.refs++
	}
	return p
}

// release decrements p's refcount. It never frees anything explicitly --
// the garbage collector does that once nothing references p -- but it
// keeps the refcount accurate for later exclusivity checks and traces the
// event for parity with the original's destructor instrumentation.
func (p *payload) release() {
	if p == nil {
		return
	}
	p.refs--
	if p.refs == 0 {
		tracer.Dtor(p.refs)
	}
}

// ensureExclusive returns a payload that is safe to mutate in place: p
// itself if its refcount indicates no other Amount can observe it, or a
// fresh clone (with p's refcount decremented) otherwise. This is the
// copy-on-write gate described in spec §4.2 and is used exclusively by the
// mutating (pointer-receiver) arithmetic API in amount_mutate.go.
func ensureExclusive(p *payload) *payload {
	if p == nil {
		return newPayloadFromInt64(0)
	}
	if p.refs > 1 {
		clone := p.clone()
		p.release()
		return clone
	}
	return p
}

// pow10 returns 10^n as a freshly allocated big.Int.
func pow10(n int) *big.Int {
	if n <= 0 {
		return big.NewInt(1)
	}
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// rescaleMantissa returns m reinterpreted from fromPrec digits of precision
// to toPrec digits: multiplied out (exact) when growing, truncated via
// integer division (chopped, not rounded) when shrinking. See spec §4.1.
//
// Precisions are passed as plain ints rather than uint8 because
// intermediate precisions during multiplication (the sum of two operand
// precisions) can temporarily exceed the uint8 range before being capped
// back down; only payload.prec itself is constrained to uint8.
func rescaleMantissa(m *big.Int, fromPrec, toPrec int) *big.Int {
	switch {
	case toPrec == fromPrec:
		return m
	case toPrec > fromPrec:
		return new(big.Int).Mul(m, pow10(toPrec-fromPrec))
	default:
		q := new(big.Int)
		q.Quo(m, pow10(fromPrec-toPrec))
		return q
	}
}

// roundMantissa rounds m, encoded at fromPrec digits, to toPrec digits using
// half-away-from-zero rounding (ties round away from zero). fromPrec must
// be strictly greater than toPrec. See spec §4.1.
func roundMantissa(m *big.Int, fromPrec, toPrec int) *big.Int {
	d := pow10(fromPrec - toPrec)
	q, r := new(big.Int), new(big.Int)
	q.QuoRem(m, d, r)

	h := new(big.Int).Rsh(d, 1) // d is a power of 10 >= 10, so d/2 is exact
	absR := new(big.Int).Abs(r)
	if absR.Cmp(h) >= 0 {
		if r.Sign() >= 0 {
			q.Add(q, big.NewInt(1))
		} else {
			q.Sub(q, big.NewInt(1))
		}
	}
	return q
}

// rescale reinterprets p's mantissa at precision prec, mutating p in place.
// p must be exclusively owned (see ensureExclusive); this is never checked
// here, matching the original _resize, which likewise assumes the caller
// already called _dup.
func (p *payload) rescale(prec int) error {
	if prec == int(p.prec) {
		return nil
	}
	if prec >= 256 {
		return errPrecisionOverflow
	}
	p.mantissa = rescaleMantissa(p.mantissa, int(p.prec), prec)
	p.prec = uint8(prec)
	return nil
}

// round rounds p's mantissa to prec digits using half-away-from-zero
// rounding, mutating p in place. It is a no-op if prec >= p.prec. p must be
// exclusively owned.
func (p *payload) round(prec uint8) {
	if prec >= p.prec {
		return
	}
	tracer.Round(p.prec, prec, false)
	p.mantissa = roundMantissa(p.mantissa, int(p.prec), int(prec))
	p.prec = prec
}

// roundFromRaw rounds m, currently at rawPrec digits (which may exceed the
// uint8 range, e.g. immediately after multiplying two payloads' precisions
// together), down to toPrec digits (which must fit in uint8). It is used by
// the precision-capping step of Mul and Div, where the pre-cap precision is
// not itself a value any payload ever holds.
func roundFromRaw(m *big.Int, rawPrec, toPrec int) (*big.Int, uint8, error) {
	if toPrec >= 256 {
		return nil, 0, errPrecisionOverflow
	}
	if rawPrec <= toPrec {
		return m, uint8(rawPrec), nil
	}
	return roundMantissa(m, rawPrec, toPrec), uint8(toPrec), nil
}
