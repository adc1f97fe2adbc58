package ledger

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func bigInt(v int64) *big.Int { return big.NewInt(v) }

func TestCommodityAddPriceAndLatest(t *testing.T) {
	r := NewRegistry()
	eur := r.Find("EUR", true)

	t0 := time.Unix(1000, 0)
	t1 := time.Unix(2000, 0)
	p0 := NewAmountFromInt64(110)
	p1 := NewAmountFromInt64(112)

	eur.AddPrice(t0, p0)
	eur.AddPrice(t1, p1)

	latest := eur.PriceAt(time.Time{})
	require.True(t, latest.Equal(p1), "PriceAt(zero moment) should return the latest entry")
}

func TestCommodityPriceAtReverseScan(t *testing.T) {
	r := NewRegistry()
	eur := r.Find("EUR", true)

	prices := []struct {
		at    int64
		price int64
	}{
		{1000, 100},
		{2000, 105},
		{3000, 110},
	}
	for _, p := range prices {
		eur.AddPrice(time.Unix(p.at, 0), NewAmountFromInt64(p.price))
	}

	got := eur.PriceAt(time.Unix(2500, 0))
	require.Equal(t, int64(105), got.Mantissa().Int64(), "PriceAt(2500) should return the entry at 2000, the most recent at-or-before")

	got = eur.PriceAt(time.Unix(500, 0))
	require.True(t, got.IsEmpty(), "PriceAt before any entry exists should be empty")
}

func TestCommodityAddPriceOverwrites(t *testing.T) {
	r := NewRegistry()
	eur := r.Find("EUR", true)
	when := time.Unix(1000, 0)

	eur.AddPrice(when, NewAmountFromInt64(100))
	eur.AddPrice(when, NewAmountFromInt64(200))

	require.Len(t, eur.history, 1, "AddPrice at an existing timestamp should overwrite, not append")
	require.Equal(t, int64(200), eur.history[0].price.Mantissa().Int64())
}

func TestCommodityPriceAtUpdaterMutatesResult(t *testing.T) {
	r := NewRegistry()
	eur := r.Find("EUR", true)
	eur.AddPrice(time.Unix(1000, 0), NewAmountFromInt64(100))

	replacement := NewAmountFromInt64(999)
	eur.SetUpdater(func(c *Commodity, requested time.Time, foundAge, latestAge time.Duration, price *Amount) {
		*price = replacement
	})

	got := eur.PriceAt(time.Time{})
	require.True(t, got.Equal(replacement), "updater should be able to replace the looked-up price")
}

func TestCommodityValueAtAppliesConversion(t *testing.T) {
	r := NewRegistry()
	shares := r.Find("AAPL", true)
	shares.precision = 2

	price := newAmount(newPayload(bigInt(15000), 2), r.Find("USD", true)) // $150.00 per share
	shares.AddPrice(time.Unix(1000, 0), price)

	holding := newAmount(newPayload(bigInt(10), 0), shares) // 10 AAPL
	value := holding.ValueAt(time.Unix(1000, 0))

	require.Equal(t, "USD", value.Commodity().Symbol())
	require.Equal(t, uint8(2), value.Precision())
}

func TestCommodityValueAtNoMarket(t *testing.T) {
	r := NewRegistry()
	shares := r.Find("PRIV", true)
	shares.flags |= NOMARKET
	shares.AddPrice(time.Unix(1000, 0), NewAmountFromInt64(500))

	holding := newAmount(newPayload(bigInt(10), 0), shares)
	value := holding.ValueAt(time.Unix(1000, 0))

	require.True(t, value.Equal(holding), "NOMARKET commodities must not apply market pricing in ValueAt")
}
