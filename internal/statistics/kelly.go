package statistics

import "github.com/shopspring/decimal"

// KellyFraction implements the fractional-Kelly formula f* = edge/variance,
// clamped to [0,1], grounded on original_source/core/statistics/kelly.py's
// kelly_criterion.
func KellyFraction(edge, variance decimal.Decimal) decimal.Decimal {
	if variance.IsZero() {
		return decimal.Zero
	}
	f := edge.Div(variance)
	if f.IsNegative() {
		return decimal.Zero
	}
	if f.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return f
}

// KellyBetSize scales bankroll by the Kelly fraction to produce a
// recommended bet size, grounded on kelly.py's KellyCalculator.
func KellyBetSize(bankroll, edge, variance decimal.Decimal) decimal.Decimal {
	return bankroll.Mul(KellyFraction(edge, variance))
}
