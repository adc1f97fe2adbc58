package ledger

import (
	"sort"
	"time"
)

// AddPrice inserts or overwrites c's price history entry at the given
// moment. Entries are kept ordered by timestamp so PriceAt can scan them in
// reverse chronological order.
func (c *Commodity) AddPrice(when time.Time, price Amount) {
	price.payload.retain()
	t := when.Unix()
	i := sort.Search(len(c.history), func(i int) bool { return c.history[i].when >= t })
	if i < len(c.history) && c.history[i].when == t {
		c.history[i].price.payload.release()
		c.history[i].price = price
		return
	}
	c.history = append(c.history, priceEntry{})
	copy(c.history[i+1:], c.history[i:])
	c.history[i] = priceEntry{when: t, price: price}
}

// PriceAt scans c's price history in reverse chronological order and
// returns the first entry whose timestamp is at or before moment. A zero
// moment means "unspecified", and returns the single latest entry. If no
// history entry applies, c's fixed conversion rate is used instead, if one
// is set.
//
// If c has an Updater installed, it is invoked with the commodity, the
// requested moment, the age of the found entry relative to moment, the age
// of the single most recent entry, and the resulting price; the updater may
// replace the price outright. The final price (possibly the empty Amount)
// is returned.
func (c *Commodity) PriceAt(moment time.Time) Amount {
	var price Amount
	var foundAge, latestAge time.Duration

	if n := len(c.history); n > 0 {
		latest := c.history[n-1]
		if !moment.IsZero() {
			latestAge = moment.Sub(time.Unix(latest.when, 0))
		}

		if moment.IsZero() {
			price = latest.price
			foundAge = 0
		} else {
			t := moment.Unix()
			for i := n - 1; i >= 0; i-- {
				if c.history[i].when <= t {
					price = c.history[i].price
					foundAge = moment.Sub(time.Unix(c.history[i].when, 0))
					break
				}
			}
		}
	}

	if price.IsEmpty() && c.conversion != nil {
		price = *c.conversion
	}
	price.payload.retain()

	if c.updater != nil {
		c.updater(c, moment, foundAge, latestAge, &price)
	}

	return price
}

// ValueAt returns a's value converted through its commodity's price history
// at the given moment, per spec §4.2: if the commodity is not NOMARKET and
// a price applies, the result is (price * a) rounded to the commodity's
// display precision; otherwise a is returned unchanged. A zero moment means
// "latest known price".
func (a Amount) ValueAt(moment time.Time) Amount {
	if a.commodity == nil || a.commodity.flags.Has(NOMARKET) {
		return a
	}
	price := a.commodity.PriceAt(moment)
	if price.IsEmpty() {
		return a
	}
	converted, err := price.Mul(a)
	if err != nil {
		return a
	}
	return converted.Round(a.commodity.precision)
}
