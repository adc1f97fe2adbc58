package ledger

import "errors"

// Sentinel errors returned by this package. Use [errors.Is] to test for them;
// callers should not compare error values directly, since they are always
// wrapped with additional context via fmt.Errorf's %w verb.
var (
	// errCommodityMismatch is returned when an additive operation (Add, Sub)
	// is attempted between two non-empty Amounts with distinct, non-null
	// commodities.
	errCommodityMismatch = errors.New("commodity mismatch")

	// errDivideByZero is returned when the divisor of a Div/DivAssign
	// operation is an empty Amount.
	errDivideByZero = errors.New("divide by zero")

	// errUnterminatedSymbol is returned when a parsed amount opens a quoted
	// commodity symbol with `"` but never finds the closing quote.
	errUnterminatedSymbol = errors.New("unterminated commodity symbol")

	// errPrecisionOverflow is returned when a rescale would push a payload's
	// precision to 256 or beyond. This is defensive: it should not occur
	// under normal use, since no operation in this package grows precision
	// anywhere near that bound except pathological chained multiplication.
	errPrecisionOverflow = errors.New("precision overflow")

	// errInvalidAmount is returned by the binary decoder when the wire
	// format is structurally invalid (unknown tag, or a back-reference to an
	// index that was never written). A truncated buffer is reported with the
	// underlying io error instead, unwrapped.
	errInvalidAmount = errors.New("invalid amount encoding")
)
