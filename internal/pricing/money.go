package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round2 rounds a monetary amount to two decimal places, half away from
// zero. Applied at each sub-computation so the persisted breakdown fields
// match what was actually summed.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// NonNegative clamps negative amounts to zero.
func NonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// percentOf computes value% of amount, rounded to two decimal places.
func percentOf(amount, value decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(value).Div(hundred))
}
