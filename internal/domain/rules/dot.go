package rules

// DotTickParams carries everything the per-tick damage-over-time formula
// needs for one effect row on one tick.
type DotTickParams struct {
	TotalAmount        float32
	AmountAppliedSoFar float32
	DurationMicros     int64
	TickIntervalMicros int64
}

// DotTickAmount computes amount_this_tick for a generic DoT effect:
// amount_per_micro = total_amount / duration_micros, then
// amount_this_tick = amount_per_micro * tick_interval_micros, clamped by
// the remaining total_amount - amount_applied_so_far.
func DotTickAmount(p DotTickParams) float32 {
	if p.DurationMicros <= 0 {
		return 0
	}
	amountPerMicro := p.TotalAmount / float32(p.DurationMicros)
	amountThisTick := amountPerMicro * float32(p.TickIntervalMicros)
	remaining := p.TotalAmount - p.AmountAppliedSoFar
	if amountThisTick > remaining {
		amountThisTick = remaining
	}
	if amountThisTick < 0 {
		amountThisTick = 0
	}
	return amountThisTick
}

// VenomTickAmount is Venom's fixed-rate special case: 1 HP/tick, reduced
// 75% by PoisonResistance.
func VenomTickAmount(hasPoisonResistance bool) float32 {
	amount := VenomFixedDamagePerTick
	if hasPoisonResistance {
		amount *= (1 - VenomPoisonResistanceReduction)
	}
	return amount
}

// EntrainmentTickAmount is Entrainment's fixed-rate special case: 3
// HP/tick, paused entirely while ValidolProtection is active.
func EntrainmentTickAmount(hasValidolProtection bool) float32 {
	if hasValidolProtection {
		return 0
	}
	return EntrainmentFixedDamagePerTick
}

// BurnTickAmount applies fire-vulnerability and FireResistance modifiers
// to a base DoT tick amount, and nullifies the tick entirely while the
// target has SafeZone.
func BurnTickAmount(base, fireVulnerabilityMultiplier float32, hasFireResistance, hasSafeZone bool) float32 {
	if hasSafeZone {
		return 0
	}
	amount := base * fireVulnerabilityMultiplier
	if hasFireResistance {
		amount *= 0.5
	}
	return amount
}

// ExtendBleed combines two bleed applications per the additive
// extension rule: total_amount sums, ends_at extends additively. The
// hard stack cap is enforced by the caller (MaxBleedStacks), which may
// choose to clamp the combined totalAmount instead of creating a new
// row once the cap is reached.
func ExtendBleed(existingTotal float32, existingEndsAt int64, addTotal float32, addDurationMicros int64) (newTotal float32, newEndsAt int64) {
	return existingTotal + addTotal, existingEndsAt + addDurationMicros
}
