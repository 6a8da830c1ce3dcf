package service

import (
	"fmt"

	"smarttax/internal/domain"

	"github.com/shopspring/decimal"
)

// TaxCalculator splits gross sale amounts into tax and trader portions
type TaxCalculator struct {
	rate decimal.Decimal
}

// NewTaxCalculator creates a calculator for a rate in [0, 1)
func NewTaxCalculator(rate decimal.Decimal) (*TaxCalculator, error) {
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("tax rate must be in [0, 1), got %s", rate)
	}
	return &TaxCalculator{rate: rate}, nil
}

// Rate returns the configured rate as a fraction
func (c *TaxCalculator) Rate() decimal.Decimal {
	return c.rate
}

// RatePercent returns the rate as a percentage string, e.g. "18"
func (c *TaxCalculator) RatePercent() string {
	return c.rate.Mul(decimal.NewFromInt(100)).String()
}

// Split applies the configured rate to gross
func (c *TaxCalculator) Split(gross decimal.Decimal) (tax, net decimal.Decimal) {
	return Split(gross, c.rate)
}

// Split returns tax = gross*rate rounded half-up to domain.MinorUnits and net = gross - tax.
// tax + net always equals gross exactly.
func Split(gross, rate decimal.Decimal) (tax, net decimal.Decimal) {
	// Round is half away from zero, which is half-up for the non-negative amounts we accept
	tax = gross.Mul(rate).Round(domain.MinorUnits)
	net = gross.Sub(tax)
	return tax, net
}
