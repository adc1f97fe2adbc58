/*
Package ledger implements the arbitrary-precision decimal amount engine
underlying a double-entry accounting ledger: exact arithmetic on signed
decimal quantities tagged by commodity, plus a commodity registry tracking
display style and time-indexed prices.

# Features

  - Arbitrary-precision decimal arithmetic with automatic precision tracking
  - Commodity-aware operator semantics: adding unlike commodities is an
    error, multiplication and division grow precision with a guard-digit cap
  - A compact, reference-counted, copy-on-write shared payload, keeping
    journals with millions of postings tractable
  - Bit-exact binary serialization that deduplicates large integer payloads
  - Locale-flexible textual parsing and formatting that round-trips

# Representation

An [Amount] pairs a payload (or the distinguished empty state) with a
[Commodity] reference. A payload is an owned arbitrary-precision mantissa
plus an unsigned decimal precision; it is shared by value across Amount
handles and mutated only under exclusive ownership. A [Commodity] is a named
unit -- a currency, a share class, a unit of measure -- with display style
flags, a display precision, and a time-ordered price history; commodities
live in a [Registry], which owns them and is also responsible for the
process-wide serialization counters used by binary.go.

# Operations

Amount provides two arithmetic surfaces. The pure API -- Add, Sub, Mul, Div,
Neg -- always returns a new Amount and never mutates its receiver. The
mutating API -- AddAssign, SubAssign, MulAssign, DivAssign, Negate -- mutates
its receiver in place via copy-on-write, for the balance-accumulation loops
the payload design exists to make cheap. Amounts compare with Cmp, Equal,
Less, and Greater, all of which respect the rule that Amounts naming
distinct, non-null commodities are incomparable rather than ordered; Bool
reports whether an Amount is truthy after truncation to its commodity's
display precision.

# Parsing and formatting

[ParseAmount] accepts either "NUM SYM" or "SYM NUM", with an optional
space between them and an optional double-quoted symbol. The decimal and
thousands-grouping style implied by a literal's commas and periods is
OR-merged into its commodity's flags, and the commodity's display
precision is ratcheted up to match. Amount's String and Format methods
reverse the process, producing output that reparses to an equal Amount.

# Errors

CommodityMismatch is returned when an additive operation is attempted
between two non-empty Amounts naming distinct, non-null commodities.
DivideByZero is returned when the divisor of a Div/DivAssign is empty.
UnterminatedSymbol is returned when a parsed literal opens a quoted symbol
without a closing quote. PrecisionOverflow is returned, defensively, if a
rescale would push a payload's precision to 256 or beyond. Must-prefixed
constructors panic instead of returning an error.
*/
package ledger
