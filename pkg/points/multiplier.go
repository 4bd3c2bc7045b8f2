package points

import (
	"math"

	"github.com/shopspring/decimal"
)

// Season multiplier curve parameters. Inside the active band the multiplier
// follows a sigmoid over the natural log of the time weighted XRD balance.
var (
	multiplierFloorBalance   = decimal.NewFromInt(10_000)
	multiplierCeilingBalance = decimal.NewFromInt(75_000_000)
	multiplierCeiling        = decimal.RequireFromString("3.0")
)

const (
	sigmoidBase      = 0.5
	sigmoidScale     = 2.587
	sigmoidSteepness = 0.9
	sigmoidMidpoint  = 14.4
)

// Multiplier maps a time weighted XRD balance to the season points
// multiplier. Balances under 10k earn nothing, balances of 75M and above are
// capped at 3.0.
func Multiplier(balance decimal.Decimal) decimal.Decimal {
	if balance.LessThan(multiplierFloorBalance) {
		return decimal.Zero
	}
	if balance.GreaterThanOrEqual(multiplierCeilingBalance) {
		return multiplierCeiling
	}

	b, _ := balance.Float64()
	m := sigmoidBase + sigmoidScale/(1+math.Exp(-sigmoidSteepness*(math.Log(b)-sigmoidMidpoint)))
	// the curve crests marginally above the cap just under the ceiling
	// balance, so clamp to keep the multiplier monotone across it
	return decimal.Min(decimal.NewFromFloat(m), multiplierCeiling)
}
