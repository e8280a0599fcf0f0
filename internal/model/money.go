package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of fractional digits amounts are written with.
const AmountPlaces = 2

// ParseAmount parses a positive decimal amount such as "12.50" or "12,50".
// A leading currency sign is tolerated. A comma is read as the decimal
// separator only when it is the sole separator and one or two digits follow
// it, so grouped input like "1,000" is rejected rather than misread. Zero, negative and non-numeric values
// are rejected with ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := parsePositive(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Value: strings.TrimSpace(s), Err: ErrInvalidAmount}
	}
	return d, nil
}

// ParseBudget is ParseAmount with the budget error cause.
func ParseBudget(s string) (decimal.Decimal, error) {
	d, err := parsePositive(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "budget", Value: strings.TrimSpace(s), Err: ErrInvalidBudget}
	}
	return d, nil
}

func parsePositive(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if strings.Contains(s, ",") {
		if !isDecimalComma(s) {
			return decimal.Zero, ErrInvalidAmount
		}
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// isDecimalComma reports whether s holds one comma, no dot and one or two
// digits after the comma.
func isDecimalComma(s string) bool {
	if strings.Count(s, ",") != 1 || strings.Contains(s, ".") {
		return false
	}
	frac := s[strings.Index(s, ",")+1:]
	if len(frac) == 0 || len(frac) > 2 {
		return false
	}
	for _, r := range frac {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatAmount renders an amount with exactly two fractional digits, no
// grouping, as stored on disk.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountPlaces)
}
