package ledger

import (
	"errors"
	"testing"
)

func TestAddAssignAccumulatesAndSharesSafely(t *testing.T) {
	r := NewRegistry()
	a := mustParse(t, r, "$10.00")
	shared := a.Clone() // independent payload; a plain `shared := a` would alias a's payload

	b := mustParse(t, r, "$5.00")
	if err := a.AddAssign(b); err != nil {
		t.Fatalf("AddAssign returned error: %v", err)
	}

	if got := a.String(); got != "$15.00" {
		t.Errorf("a after AddAssign = %q, want %q", got, "$15.00")
	}
	if got := shared.String(); got != "$10.00" {
		t.Errorf("shared handle mutated: = %q, want unchanged %q", got, "$10.00")
	}
}

func TestAddAssignFromEmpty(t *testing.T) {
	var a Amount
	r := NewRegistry()
	b := mustParse(t, r, "$5.00")
	if err := a.AddAssign(b); err != nil {
		t.Fatalf("AddAssign returned error: %v", err)
	}
	if !a.Equal(b) {
		t.Errorf("empty.AddAssign(b) = %s, want %s", a, b)
	}
}

func TestSubAssignMismatch(t *testing.T) {
	r := NewRegistry()
	a := mustParse(t, r, "$10")
	b := mustParse(t, r, "10 USD")
	before := a
	if err := a.SubAssign(b); !errors.Is(err, errCommodityMismatch) {
		t.Fatalf("SubAssign across commodities: err = %v, want errCommodityMismatch", err)
	}
	if !a.Equal(before) {
		t.Error("a must be left unchanged after a failed SubAssign (strong exception safety)")
	}
}

func TestMulAssignCapsPrecision(t *testing.T) {
	r := NewRegistry()
	a := mustParse(t, r, "$1.000000000") // prec 9
	b := mustParse(t, r, "$1.000000000")

	if err := a.MulAssign(b); err != nil {
		t.Fatalf("MulAssign returned error: %v", err)
	}
	cap := int(a.Commodity().Precision()) + 6
	if int(a.Precision()) > cap {
		t.Errorf("precision after MulAssign = %d, exceeds cap %d", a.Precision(), cap)
	}
}

func TestDivAssignByZero(t *testing.T) {
	r := NewRegistry()
	a := mustParse(t, r, "$10.00")
	before := a
	if err := a.DivAssign(Empty); !errors.Is(err, errDivideByZero) {
		t.Fatalf("DivAssign(empty): err = %v, want errDivideByZero", err)
	}
	if !a.Equal(before) {
		t.Error("a must be left unchanged after a failed DivAssign")
	}
}

func TestNegateInPlace(t *testing.T) {
	r := NewRegistry()
	a := mustParse(t, r, "$5.00")
	a.Negate()
	if a.CmpInt(0) >= 0 {
		t.Errorf("Negate() of a positive amount should be negative, got %s", a)
	}
	if got := a.String(); got != "$-5.00" {
		t.Errorf("Negate().String() = %q, want %q", got, "$-5.00")
	}
}

func TestSetInt64AndSetFloat64(t *testing.T) {
	var a Amount
	a.SetInt64(42)
	if a.CmpInt(42) != 0 {
		t.Errorf("SetInt64(42): CmpInt(42) != 0")
	}

	var b Amount
	b.SetFloat64(7)
	if b.CmpInt(7) != 0 {
		t.Errorf("SetFloat64(7): CmpInt(7) != 0")
	}
}

func TestRoundAssign(t *testing.T) {
	r := NewRegistry()
	a := mustParse(t, r, "$10.005")
	a.RoundAssign(2)
	if a.Precision() != 2 {
		t.Fatalf("Precision() after RoundAssign(2) = %d, want 2", a.Precision())
	}
	if got := a.Mantissa().Int64(); got != 1001 {
		t.Errorf("mantissa after RoundAssign(2) = %d, want 1001 (10.01 rounded half-away-from-zero)", got)
	}
}
