package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrice(t *testing.T) {
	p, err := NewPrice(1999, "USD")
	require.NoError(t, err)
	assert.Equal(t, int64(1999), p.Amount())
	assert.Equal(t, "USD", p.Currency())

	_, err = NewPrice(-1, "USD")
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewPrice(100, "US")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestPriceEqual(t *testing.T) {
	assert.True(t, MustPrice(500, "USD").Equal(MustPrice(500, "USD")))
	assert.False(t, MustPrice(500, "USD").Equal(MustPrice(500, "EUR")))
	assert.False(t, MustPrice(500, "USD").Equal(MustPrice(501, "USD")))
	assert.True(t, Price{}.IsZero())
	assert.False(t, MustPrice(0, "USD").IsZero(), "a free product is priced, an empty price is not")
}

func TestPriceDeltaPercent(t *testing.T) {
	old := MustPrice(1000, "USD")
	assert.InDelta(t, 10.0, old.DeltaPercent(MustPrice(1100, "USD")), 0.001)
	assert.InDelta(t, 10.0, old.DeltaPercent(MustPrice(900, "USD")), 0.001)
	assert.Zero(t, Price{}.DeltaPercent(MustPrice(900, "USD")), "a zero base never divides")
}

func TestPriceString(t *testing.T) {
	assert.Equal(t, "19.99 USD", MustPrice(1999, "USD").String())
	assert.Equal(t, "5.05 EUR", MustPrice(505, "EUR").String())
	assert.Equal(t, "-", Price{}.String())
}
