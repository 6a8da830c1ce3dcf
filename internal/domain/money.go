package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnits is the number of decimal places money is kept in
const MinorUnits = 2

// MaxAmount is the largest price a transaction column can hold
var MaxAmount = decimal.RequireFromString("999999999999.99")

// Plain decimals only. Exponent forms would let a short input expand to a huge number.
var amountPattern = regexp.MustCompile(`^\d{1,12}(\.\d{1,12})?$`)

// ParseAmount parses a caller supplied price. The amount is rounded half-up
// to MinorUnits and must stay positive and within MaxAmount.
func ParseAmount(input string) (decimal.Decimal, error) {
	input = strings.TrimSpace(input)
	if !amountPattern.MatchString(input) {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(input)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	amount = amount.Round(MinorUnits)
	if !amount.IsPositive() || amount.GreaterThan(MaxAmount) {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}
