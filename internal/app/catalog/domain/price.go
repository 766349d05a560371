package domain

import (
	"fmt"
	"math"
)

// Price is a display price in minor currency units (cents for the
// currencies DevDaily lists). It is immutable; mutators return a new
// value.
type Price struct {
	amount   int64
	currency string
}

// NewPrice creates a Price from minor units and an ISO 4217 code.
func NewPrice(amount int64, currency string) (Price, error) {
	if amount < 0 {
		return Price{}, ErrInvalidPrice
	}
	if len(currency) != 3 {
		return Price{}, ErrInvalidCurrency
	}
	return Price{amount: amount, currency: currency}, nil
}

// MustPrice is NewPrice for static values; it panics on invalid input.
func MustPrice(amount int64, currency string) Price {
	p, err := NewPrice(amount, currency)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Price) Amount() int64    { return p.amount }
func (p Price) Currency() string { return p.currency }

// IsZero reports whether the price carries no value; an unset price is
// the zero Price.
func (p Price) IsZero() bool {
	return p.amount == 0 && p.currency == ""
}

// Equal reports whether both amount and currency match.
func (p Price) Equal(other Price) bool {
	return p.amount == other.amount && p.currency == other.currency
}

// DeltaPercent returns the relative change from p to newPrice as a
// percentage. A zero base yields zero so callers never divide by it.
func (p Price) DeltaPercent(newPrice Price) float64 {
	if p.amount == 0 {
		return 0
	}
	return math.Abs(float64(newPrice.amount-p.amount)) / float64(p.amount) * 100
}

// String renders the price for logs and CLI tables, e.g. "19.99 USD".
func (p Price) String() string {
	if p.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%d.%02d %s", p.amount/100, p.amount%100, p.currency)
}
