// Package trace provides optional, low-overhead tracing of BigDecimal
// payload lifecycle events (allocation, release, rescale/round).
//
// The original C++ implementation this package's caller is modeled on
// (ledger-cli's amount.cc) wraps every bigint_t constructor and destructor
// in a DEBUG_PRINT("ledger.memory.ctors", ...) / DEBUG_PRINT("ledger.memory.dtors", ...)
// call, gated on a compile-time debug level. This package carries that
// instrumentation forward as a structured logger instead of dropping it:
// a Logger with no underlying logger (the zero value, or Disabled()) makes
// every call below a no-op, so production builds pay nothing beyond a nil
// check.
package trace

import (
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger emits payload lifecycle events. The zero value is valid and
// discards everything.
type Logger struct {
	l *logiface.Logger[*stumpy.Event]
}

// Disabled returns a Logger that discards every event.
func Disabled() *Logger {
	return &Logger{}
}

// NewStderr returns a Logger that writes newline-delimited JSON to stderr
// at the given level or more severe, using the stumpy event encoder.
func NewStderr(level logiface.Level) *Logger {
	return &Logger{
		l: stumpy.L.New(
			stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr)),
			stumpy.L.WithLevel(level),
		),
	}
}

// Ctor traces construction of a payload (mirrors "ledger.memory.ctors").
func (t *Logger) Ctor(kind string, prec uint8) {
	if t == nil || t.l == nil {
		return
	}
	t.l.Trace().Str(`event`, `ctor`).Str(`kind`, kind).Int(`prec`, int(prec)).Log(`amount_t::bigint_t`)
}

// Dtor traces destruction of a payload (mirrors "ledger.memory.dtors").
func (t *Logger) Dtor(refs int) {
	if t == nil || t.l == nil {
		return
	}
	t.l.Trace().Int(`refs`, refs).Log(`~amount_t::bigint_t`)
}

// Round traces a rescale/round operation, including whether it triggered a
// copy-on-write clone.
func (t *Logger) Round(fromPrec, toPrec uint8, cloned bool) {
	if t == nil || t.l == nil {
		return
	}
	t.l.Debug().Int(`from_prec`, int(fromPrec)).Int(`to_prec`, int(toPrec)).Str(`cloned`, boolStr(cloned)).Log(`round`)
}

func boolStr(b bool) string {
	if b {
		return `true`
	}
	return `false`
}
