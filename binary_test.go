package ledger

import (
	"bytes"
	"testing"
	"time"
)

func TestWritePayloadEmptyTag(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry()
	r.BeginSerialization()
	if err := r.WritePayload(&buf, Empty); err != nil {
		t.Fatalf("WritePayload(Empty) returned error: %v", err)
	}
	if got := buf.Bytes(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("wire bytes = %v, want [0]", got)
	}

	arena := NewArena()
	got, err := r.ReadPayload(&buf, arena, r.NullCommodity())
	if err != nil {
		t.Fatalf("ReadPayload returned error: %v", err)
	}
	if !got.IsEmpty() {
		t.Errorf("round-tripped tag-0 amount is not empty: %s", got)
	}
}

// TestWritePayloadDedup reproduces spec §8 scenario 7: three amounts sharing
// one payload serialize as exactly one tag-1 record and two tag-2
// back-references, and BigintsCount reports 1 distinct payload emitted.
func TestWritePayloadDedup(t *testing.T) {
	r := NewRegistry()
	usd := r.Find("USD", true)

	shared := newAmount(newPayload(bigInt(1000), 2), usd)
	shared.payload.retain()
	shared.payload.retain() // three live handles share this payload below
	a, b, c := shared, shared, shared

	var buf bytes.Buffer
	r.BeginSerialization()
	if err := r.WritePayload(&buf, a); err != nil {
		t.Fatalf("WritePayload(a): %v", err)
	}
	if err := r.WritePayload(&buf, b); err != nil {
		t.Fatalf("WritePayload(b): %v", err)
	}
	if err := r.WritePayload(&buf, c); err != nil {
		t.Fatalf("WritePayload(c): %v", err)
	}

	if got := r.BigintsCount(); got != 1 {
		t.Errorf("BigintsCount() = %d, want 1 (one distinct payload across three shared handles)", got)
	}

	wire := buf.Bytes()
	if wire[0] != 1 {
		t.Fatalf("first record tag = %d, want 1 (first emission)", wire[0])
	}

	arena := NewArena()
	rd := bytes.NewReader(wire)
	got1, err := r.ReadPayload(rd, arena, usd)
	if err != nil {
		t.Fatalf("ReadPayload #1: %v", err)
	}
	got2, err := r.ReadPayload(rd, arena, usd)
	if err != nil {
		t.Fatalf("ReadPayload #2: %v", err)
	}
	got3, err := r.ReadPayload(rd, arena, usd)
	if err != nil {
		t.Fatalf("ReadPayload #3: %v", err)
	}

	if !got1.Equal(got2) || !got2.Equal(got3) {
		t.Fatalf("round-tripped amounts must all be pairwise equal: %s, %s, %s", got1, got2, got3)
	}
	if got1.payload != got2.payload || got2.payload != got3.payload {
		t.Error("back-references (tag 2) must resolve to the same payload object as the first emission, not independent copies")
	}
	if len(arena.payloads) != 1 {
		t.Errorf("arena holds %d payloads, want 1 (only the first emission allocates)", len(arena.payloads))
	}
}

func TestWritePayloadResetBetweenPasses(t *testing.T) {
	r := NewRegistry()
	usd := r.Find("USD", true)
	a := newAmount(newPayload(bigInt(500), 2), usd)

	var first bytes.Buffer
	r.BeginSerialization()
	if err := r.WritePayload(&first, a); err != nil {
		t.Fatal(err)
	}
	if first.Bytes()[0] != 1 {
		t.Fatalf("first pass tag = %d, want 1", first.Bytes()[0])
	}

	var second bytes.Buffer
	r.BeginSerialization()
	if err := r.WritePayload(&second, a); err != nil {
		t.Fatal(err)
	}
	if second.Bytes()[0] != 1 {
		t.Fatalf("second pass (after BeginSerialization) tag = %d, want 1 (indices reset)", second.Bytes()[0])
	}
}

// TestPromoteArenaPrices reproduces the arena hand-off from spec §4.6 and
// §9: a payload read into an Arena and installed into a commodity's price
// history must survive the arena's own teardown.
func TestPromoteArenaPrices(t *testing.T) {
	r := NewRegistry()
	usd := r.Find("USD", true)
	eur := r.Find("EUR", true)

	source := newAmount(newPayload(bigInt(11000), 2), usd) // $110.00
	var buf bytes.Buffer
	r.BeginSerialization()
	if err := r.WritePayload(&buf, source); err != nil {
		t.Fatal(err)
	}

	arena := NewArena()
	readBack, err := r.ReadPayload(&buf, arena, usd)
	if err != nil {
		t.Fatal(err)
	}
	if readBack.payload.flags&flagBulkAlloc == 0 {
		t.Fatal("payload read into an arena must carry flagBulkAlloc")
	}

	eur.AddPrice(time.Unix(1000, 0), readBack)

	r.PromoteArenaPrices(arena)

	promoted := eur.history[0].price.payload
	if promoted == readBack.payload {
		t.Error("PromoteArenaPrices must replace the arena-backed payload with an independently owned clone")
	}
	if promoted.flags&flagBulkAlloc != 0 {
		t.Error("promoted payload must no longer carry flagBulkAlloc")
	}
	if promoted.mantissa.Cmp(readBack.payload.mantissa) != 0 || promoted.prec != readBack.payload.prec {
		t.Error("promoted payload must retain the same value as the arena-backed original")
	}
}

func TestReadPayloadUnknownTag(t *testing.T) {
	r := NewRegistry()
	buf := bytes.NewReader([]byte{9})
	arena := NewArena()
	if _, err := r.ReadPayload(buf, arena, r.NullCommodity()); err == nil {
		t.Fatal("ReadPayload with an unrecognized tag should return an error")
	}
}
