package pricing

import "github.com/shopspring/decimal"

// ResolveTaxRate picks the provider override when set, else the platform
// default, else zero. Negative rates are treated as unset. Never fails.
func ResolveTaxRate(providerRate, platformRate *decimal.Decimal) decimal.Decimal {
	if providerRate != nil && !providerRate.IsNegative() {
		return *providerRate
	}
	if platformRate != nil && !platformRate.IsNegative() {
		return *platformRate
	}
	return decimal.Zero
}
