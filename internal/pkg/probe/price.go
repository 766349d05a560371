package probe

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoPrice is returned when the selected text holds nothing that
// reads as a price.
var ErrNoPrice = errors.New("no price found in selection")

var amountRe = regexp.MustCompile(`[0-9]+(?:[.,\s][0-9]+)*`)

// Markers are checked in order; codes before the bare dollar sign so
// "USD 12" is not shadowed by a later symbol in the same snippet.
var currencyMarkers = []struct {
	marker string
	code   string
}{
	{"€", "EUR"},
	{"EUR", "EUR"},
	{"£", "GBP"},
	{"GBP", "GBP"},
	{"USD", "USD"},
	{"$", "USD"},
}

// ParsePrice reads the first price out of a text snippet: a currency
// marker plus a decimal amount, returned in minor units. Both
// 1,299.99 and 1.299,99 grouping styles parse: the last separator is
// the decimal mark when at most two digits follow it.
func ParsePrice(text string) (int64, string, error) {
	text = strings.ReplaceAll(text, " ", " ")

	currency, ok := detectCurrency(text)
	if !ok {
		return 0, "", ErrNoPrice
	}

	raw := strings.TrimSpace(amountRe.FindString(text))
	if raw == "" {
		return 0, "", ErrNoPrice
	}
	raw = strings.ReplaceAll(raw, " ", "")

	whole, frac := raw, ""
	if i := strings.LastIndexAny(raw, ".,"); i >= 0 {
		if tail := raw[i+1:]; len(tail) <= 2 {
			whole, frac = raw[:i], tail
		}
	}
	whole = strings.Map(func(r rune) rune {
		if r == '.' || r == ',' {
			return -1
		}
		return r
	}, whole)
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, "", ErrNoPrice
	}
	var cents int64
	if frac != "" {
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, "", ErrNoPrice
		}
		if len(frac) == 1 {
			cents *= 10
		}
	}

	return units*100 + cents, currency, nil
}

func detectCurrency(text string) (string, bool) {
	for _, m := range currencyMarkers {
		if strings.Contains(text, m.marker) {
			return m.code, true
		}
	}
	return "", false
}
