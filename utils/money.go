package utils

import "math"

// Round2 rounds x to 2 decimal places. Every ledger amount is kept at 2dp at
// each computation edge, so sums and differences of rounded values stay exact.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
