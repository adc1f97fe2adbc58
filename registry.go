package ledger

// Registry is a process-wide (or, for test isolation, caller-scoped)
// mapping from commodity symbol to *Commodity. It owns every commodity it
// creates; Amounts hold non-owning references into it.
//
// Per the Design Notes in spec §9, implementations may encapsulate the
// registry and its serialization counters in a long-lived context object
// passed explicitly to operations; that is the shape used here. Most
// callers that only need the single process-wide registry should use the
// package-level [Initialize] / [Shutdown] / [DefaultRegistry] instead of
// constructing a Registry directly.
type Registry struct {
	commodities map[string]*Commodity
	null        *Commodity

	// bigintsIndex and bigintsCount are the two process-wide serialization
	// counters from spec §4.6: bigintsIndex is monotonic, bigintsCount
	// counts distinct payloads emitted in the current write pass.
	bigintsIndex uint32
	bigintsCount uint32
}

// NewRegistry returns a fresh Registry containing only the null commodity.
func NewRegistry() *Registry {
	r := &Registry{commodities: make(map[string]*Commodity)}
	r.null = &Commodity{}
	r.commodities[""] = r.null
	return r
}

// NullCommodity returns the registry's distinguished unit-less commodity.
func (r *Registry) NullCommodity() *Commodity { return r.null }

// Find returns the commodity registered under symbol. If none exists and
// create is false, it returns nil. If none exists and create is true, a new
// Commodity with DEFAULTS flags and precision 0 is created, inserted, and
// returned.
func (r *Registry) Find(symbol string, create bool) *Commodity {
	if symbol == "" {
		return r.null
	}
	if c, ok := r.commodities[symbol]; ok {
		return c
	}
	if !create {
		return nil
	}
	c := &Commodity{symbol: symbol}
	r.commodities[symbol] = c
	return c
}

// FindQuoted is like Find, but marks the returned commodity (newly created
// or already registered, other than the null commodity) as requiring quoted
// serialization (spec §4.3's `"MSFT" 12.5` case).
func (r *Registry) FindQuoted(symbol string, create bool) *Commodity {
	c := r.Find(symbol, create)
	if c != nil && c != r.null {
		c.quoted = true
	}
	return c
}

// Commodities returns every commodity currently registered, including the
// null commodity, in no particular order.
func (r *Registry) Commodities() []*Commodity {
	out := make([]*Commodity, 0, len(r.commodities))
	for _, c := range r.commodities {
		out = append(out, c)
	}
	return out
}

// resetSerialization zeroes the two write-pass counters and every
// registered commodity's price-history payload indices, as required at the
// start of a binary serialization run (spec §4.6).
func (r *Registry) resetSerialization() {
	r.bigintsIndex = 0
	r.bigintsCount = 0
	for _, c := range r.commodities {
		for i := range c.history {
			if c.history[i].price.payload != nil {
				c.history[i].price.payload.index = 0
			}
		}
	}
}

// DefaultRegistry is the process-wide registry used by the package-level
// convenience functions (ParseAmount, MustParseAmount, and friends) and by
// [Initialize] / [Shutdown]. Most programs only ever need this one.
var DefaultRegistry = NewRegistry()

// Initialize (re)creates the null commodity and the shared boolean-true
// constant on DefaultRegistry. It mirrors the original's
// initialize_amounts and need only be called if [Shutdown] was previously
// called.
func Initialize() {
	DefaultRegistry = NewRegistry()
	truePayload.refs = 1
}

// Shutdown tears down DefaultRegistry, releasing every commodity and its
// price history. It mirrors the original's shutdown_amounts. Using Amounts
// still referencing the old registry's commodities after Shutdown is
// undefined, matching the original's lifecycle contract.
func Shutdown() {
	DefaultRegistry = nil
}
