// Package currency parses provider price strings and converts them to USD
// Conversion uses a static rate table; absence of a parseable amount is
// reported explicitly because zero is a valid free-listing price
package currency

import (
	"strconv"
	"strings"

	xcurrency "golang.org/x/text/currency"
)

// usdPerUnit is a static table of USD per one unit of the given currency
// Rates are indicative, refreshed manually; ranking only needs a rough
// common denominator, not a live FX feed
var usdPerUnit = map[string]float64{
	"USD": 1.0,
	"EUR": 1.09,
	"GBP": 1.27,
	"CAD": 0.74,
	"AUD": 0.66,
	"JPY": 0.0068,
	"CNY": 0.14,
	"INR": 0.012,
	"BRL": 0.18,
	"MXN": 0.054,
	"CHF": 1.12,
	"SEK": 0.095,
	"PLN": 0.25,
}

// symbolCodes maps lone currency symbols seen in provider payloads to ISO codes
var symbolCodes = map[string]string{
	"$":  "USD",
	"€":  "EUR",
	"£":  "GBP",
	"¥":  "JPY",
	"₹":  "INR",
	"R$": "BRL",
}

// Normalize validates and uppercases an ISO 4217 code
// Returns false for codes the ISO table does not know
func Normalize(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", false
	}
	unit, err := xcurrency.ParseISO(code)
	if err != nil {
		return "", false
	}
	return unit.String(), true
}

// FromSymbol resolves a currency symbol to an ISO code, empty when unknown
func FromSymbol(sym string) string {
	return symbolCodes[strings.TrimSpace(sym)]
}

// ParseAmount extracts a numeric amount from a provider price string
// Handles currency symbols, thousands separators, and comma decimals
// ok=false means no parseable amount was present
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// keep digits, separators, and sign; everything else is symbol noise
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			b.WriteRune(r)
		}
	}
	num := b.String()
	if num == "" {
		return 0, false
	}

	lastDot := strings.LastIndex(num, ".")
	lastComma := strings.LastIndex(num, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		// the rightmost separator is the decimal point
		if lastComma > lastDot {
			num = strings.ReplaceAll(num, ".", "")
			num = strings.Replace(num, ",", ".", 1)
		} else {
			num = strings.ReplaceAll(num, ",", "")
		}
	case lastComma >= 0:
		// lone comma with exactly two trailing digits reads as decimals,
		// otherwise it is a thousands separator
		if len(num)-lastComma-1 == 2 {
			num = strings.Replace(num, ",", ".", 1)
		} else {
			num = strings.ReplaceAll(num, ",", "")
		}
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ToUSD converts an amount in the given ISO code to USD
// ok=false when the code is missing from the rate table
func ToUSD(amount float64, code string) (float64, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	rate, ok := usdPerUnit[code]
	if !ok {
		return 0, false
	}
	return amount * rate, true
}
