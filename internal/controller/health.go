package controller

import "math"

const (
	// tempPenaltyPerC is the health-score penalty per degree outside the
	// comfortable band. Tunable; keeps the sub-score monotonically
	// decreasing with distance and floored at zero.
	tempPenaltyPerC = 5.0

	// Watering-need temperature adjustment: heat shortens the estimate.
	refTempC        = 22.0
	tempFactorSlope = 0.05
)

// HealthScore combines a moisture sub-score and a temperature sub-score,
// 0-50 points each, into a 0-100 integer.
func HealthScore(moisture, temperature float64, th Thresholds) int {
	var ms float64
	switch {
	case moisture >= th.MoistureOptimal:
		ms = 50
	case moisture >= th.MoistureLow:
		ms = 25 + (moisture-th.MoistureLow)/(th.MoistureOptimal-th.MoistureLow)*25
	default:
		ms = moisture / th.MoistureLow * 25
		if ms < 0 {
			ms = 0
		}
	}

	ts := 50.0
	if temperature < th.TempLow {
		ts = 50 - (th.TempLow-temperature)*tempPenaltyPerC
	} else if temperature > th.TempHigh {
		ts = 50 - (temperature-th.TempHigh)*tempPenaltyPerC
	}
	if ts < 0 {
		ts = 0
	}

	total := int(ms + ts)
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	return total
}

// WateringHours estimates hours until watering is needed, 0-24, one decimal.
func WateringHours(moisture, temperature float64, th Thresholds) float64 {
	var base float64
	switch {
	case moisture >= th.MoistureOptimal:
		base = 24
	case moisture >= th.MoistureLow:
		base = 12 + 12*(moisture-th.MoistureLow)/(th.MoistureOptimal-th.MoistureLow)
	default:
		base = 12 * moisture / th.MoistureLow
		if base < 0 {
			base = 0
		}
	}
	// Heat shortens the estimate: above the 22C reference the factor drops
	// below 1, below it the estimate stretches. The final clamp keeps the
	// result sane for extreme temperatures.
	factor := 1.0 - (temperature-refTempC)*tempFactorSlope
	h := math.Round(base*factor*10) / 10
	if h < 0 {
		h = 0
	}
	if h > 24 {
		h = 24
	}
	return h
}
