package ledger

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
)

// Arena collects payloads decoded from a single binary read pass, indexed
// by the wire-format ordinal assigned as each is first encountered (spec
// §4.6's tag-1 "first emission" index). Tag-2 back-references resolve
// against it.
//
// Every payload allocated into an Arena carries the bulk-allocated flag:
// its storage is considered owned by the arena rather than independently
// heap-allocated, and must be promoted via [Registry.PromoteArenaPrices]
// before the arena (and whatever backs it, e.g. a memory-mapped journal
// file) goes away, if it is still reachable from a commodity's price
// history.
type Arena struct {
	payloads []*payload
}

// NewArena returns an empty Arena ready to receive a read pass.
func NewArena() *Arena {
	return &Arena{}
}

func (ar *Arena) alloc(p *payload) uint32 {
	ar.payloads = append(ar.payloads, p)
	return uint32(len(ar.payloads))
}

func (ar *Arena) resolve(index uint32) (*payload, error) {
	if index == 0 || int(index) > len(ar.payloads) {
		return nil, fmt.Errorf("resolve payload index %d: %w", index, errInvalidAmount)
	}
	return ar.payloads[index-1], nil
}

// BeginSerialization resets r's two write-pass counters and zeroes the
// serialization index of every payload reachable from r's commodity price
// histories, as required before a fresh serialization run (spec §4.6).
func (r *Registry) BeginSerialization() {
	r.resetSerialization()
}

// BigintsCount returns the number of distinct payloads emitted with tag 1
// in the current (or most recently completed) serialization pass.
func (r *Registry) BigintsCount() uint32 { return r.bigintsCount }

// WritePayload writes a's payload to w using the deduplicating binary
// format from spec §4.6: a leading tag byte (0 empty, 1 first emission, 2
// back-reference), followed by the payload body only on first emission.
// a's commodity is not written; binary.go only serializes the payload half
// of an Amount, matching this module's scope (the journal/transaction
// layer that pairs payloads with commodities on the wire is an external
// collaborator, per spec §1).
func (r *Registry) WritePayload(w io.Writer, a Amount) error {
	if a.IsEmpty() {
		return writeUint8(w, 0)
	}
	p := a.payload
	if p.index == 0 {
		r.bigintsIndex++
		p.index = r.bigintsIndex
		r.bigintsCount++
		if err := writeUint8(w, 1); err != nil {
			return err
		}
		return writePayloadBody(w, p)
	}
	if err := writeUint8(w, 2); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, p.index)
}

func writePayloadBody(w io.Writer, p *payload) error {
	abs := new(big.Int).Abs(p.mantissa)
	limbs := abs.Bytes() // big-endian, minimal length
	if len(limbs)%2 != 0 {
		limbs = append([]byte{0}, limbs...)
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(limbs))); err != nil {
		return err
	}
	if _, err := w.Write(limbs); err != nil {
		return err
	}
	var sign uint8
	if p.mantissa.Sign() < 0 {
		sign = 1
	}
	if err := writeUint8(w, sign); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, uint16(p.prec))
}

// ReadPayload reads one payload written by WritePayload from rd, resolving
// tag-2 back-references against arena and allocating tag-1 payloads into
// it, then pairs the result with commodity (the caller is expected to know
// which commodity applies, from whatever higher-level framing it uses --
// see WritePayload's doc).
func (r *Registry) ReadPayload(rd io.Reader, arena *Arena, commodity *Commodity) (Amount, error) {
	tag, err := readUint8(rd)
	if err != nil {
		return Amount{}, err
	}
	switch tag {
	case 0:
		return Amount{}, nil
	case 1:
		var limbLen uint16
		if err := binary.Read(rd, binary.LittleEndian, &limbLen); err != nil {
			return Amount{}, err
		}
		limbs := make([]byte, limbLen)
		if _, err := io.ReadFull(rd, limbs); err != nil {
			return Amount{}, err
		}
		sign, err := readUint8(rd)
		if err != nil {
			return Amount{}, err
		}
		var prec16 uint16
		if err := binary.Read(rd, binary.LittleEndian, &prec16); err != nil {
			return Amount{}, err
		}
		mantissa := new(big.Int).SetBytes(limbs)
		if sign != 0 {
			mantissa.Neg(mantissa)
		}
		p := &payload{mantissa: mantissa, prec: uint8(prec16), refs: 1, flags: flagBulkAlloc}
		arena.alloc(p)
		return Amount{payload: p, commodity: commodity}, nil
	case 2:
		var index uint32
		if err := binary.Read(rd, binary.LittleEndian, &index); err != nil {
			return Amount{}, err
		}
		p, err := arena.resolve(index)
		if err != nil {
			return Amount{}, err
		}
		p.retain()
		return Amount{payload: p, commodity: commodity}, nil
	default:
		return Amount{}, fmt.Errorf("tag %d: %w", tag, errInvalidAmount)
	}
}

// PromoteArenaPrices walks every commodity registered with r and clones any
// price-history payload still backed by arena into an independently owned
// payload, decrementing the arena-backed payload's refcount (and tracing
// its destruction if that drops it to zero). This must be called before
// arena's backing storage is discarded, if any prices read into arena might
// still be reachable from r -- the "arena hand-off" described in spec §4.6
// and §9, modeled on the original's clean_commodity_history.
func (r *Registry) PromoteArenaPrices(arena *Arena) {
	inArena := make(map[*payload]bool, len(arena.payloads))
	for _, p := range arena.payloads {
		inArena[p] = true
	}
	for _, c := range r.commodities {
		for i := range c.history {
			p := c.history[i].price.payload
			if p == nil || p.flags&flagBulkAlloc == 0 || !inArena[p] {
				continue
			}
			clone := p.clone()
			p.release()
			c.history[i].price.payload = clone
		}
	}
}

func writeUint8(w io.Writer, b uint8) error {
	_, err := w.Write([]byte{b})
	return err
}

func readUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}
