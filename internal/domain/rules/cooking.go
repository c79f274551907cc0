package rules

// CookingSpeedMultiplier combines active multipliers (Reed Bellows,
// green-rune-zone) multiplicatively, per "stack multiplicatively" in
// the appliance design.
func CookingSpeedMultiplier(hasReedBellows, inGreenRuneZone bool) float32 {
	m := float32(1.0)
	if hasReedBellows {
		m *= ReedBellowsCookingSpeedMultiplier
	}
	if inGreenRuneZone {
		m *= GreenRuneZoneCookingSpeedMultiplier
	}
	return m
}

// FuelBurnRateMultiplier returns the divisor applied to dt when draining
// remaining_fuel_burn_time_secs (Reed Bellows slows burn to x1/1.5).
func FuelBurnRateMultiplier(hasReedBellows bool) float32 {
	if hasReedBellows {
		return ReedBellowsFuelBurnSlowdown
	}
	return 1.0
}

// FuelSecondsConsumed computes how many seconds of
// remaining_fuel_burn_time_secs to subtract for a dt-second tick.
func FuelSecondsConsumed(dtSecs float32, hasReedBellows bool) float32 {
	return dtSecs / FuelBurnRateMultiplier(hasReedBellows)
}

// RainWaterMLPerSecF maps a per-chunk weather class to the broth-pot's
// passive rain-collection rate, in fractional ml/s. The pot accumulates
// a fractional-ml carry so the non-integer 2.5 ml/s class does not lose
// water to truncation (see appliance.BrothPot.RainCarryMl).
func RainWaterMLPerSecF(weatherClass int) float32 {
	switch weatherClass {
	case 1: // Rain
		return 1
	case 2: // (reserved intermediate class)
		return 2.5
	case 3: // HeavyRain
		return 4
	case 4: // HeavyStorm
		return 6
	default:
		return 0
	}
}
