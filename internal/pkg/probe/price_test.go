package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		amount   int64
		currency string
	}{
		{"plain dollars", "$79.99", 7999, "USD"},
		{"us grouping", "$1,299.99", 129999, "USD"},
		{"eu grouping", "€1.299,99", 129999, "EUR"},
		{"symbol after amount", "129,99 €", 12999, "EUR"},
		{"no decimals", "£5", 500, "GBP"},
		{"single decimal digit", "From $49.9", 4990, "USD"},
		{"code instead of symbol", "USD 24.00", 2400, "USD"},
		{"space grouping", "1 299,95 €", 129995, "EUR"},
		{"surrounding noise", "Now only $12.50 (was $20)", 1250, "USD"},
		{"nbsp between parts", "39,90 €", 3990, "EUR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount, currency, err := ParsePrice(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.amount, amount)
			assert.Equal(t, tc.currency, currency)
		})
	}
}

func TestParsePriceRejectsGarbage(t *testing.T) {
	for _, text := range []string{
		"",
		"Sold out",
		"99.99",
		"€",
		"call for price $",
	} {
		t.Run(text, func(t *testing.T) {
			_, _, err := ParsePrice(text)
			assert.ErrorIs(t, err, ErrNoPrice)
		})
	}
}
