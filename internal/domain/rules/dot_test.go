package rules

import "testing"

func TestDotTickAmount(t *testing.T) {
	// 30 HP over 5s at a 1s tick = 6 HP per tick.
	p := DotTickParams{TotalAmount: 30, DurationMicros: 5_000_000, TickIntervalMicros: 1_000_000}
	if got := DotTickAmount(p); got != 6 {
		t.Errorf("Expected 6 per tick, got %v", got)
	}

	// The final tick is clamped by what is left to apply.
	p.AmountAppliedSoFar = 28
	if got := DotTickAmount(p); got != 2 {
		t.Errorf("Expected the remainder 2 on the last tick, got %v", got)
	}

	p.AmountAppliedSoFar = 30
	if got := DotTickAmount(p); got != 0 {
		t.Errorf("Expected nothing once fully applied, got %v", got)
	}

	if got := DotTickAmount(DotTickParams{TotalAmount: 10}); got != 0 {
		t.Errorf("Expected zero-duration effects to apply nothing, got %v", got)
	}
}

func TestVenomTickAmount(t *testing.T) {
	if got := VenomTickAmount(false); got != 1 {
		t.Errorf("Expected venom's fixed 1 HP/tick, got %v", got)
	}
	if got := VenomTickAmount(true); got != 0.25 {
		t.Errorf("Expected poison resistance to cut venom by 75%%, got %v", got)
	}
}

func TestEntrainmentTickAmount(t *testing.T) {
	if got := EntrainmentTickAmount(false); got != 3 {
		t.Errorf("Expected entrainment's fixed 3 HP/tick, got %v", got)
	}
	if got := EntrainmentTickAmount(true); got != 0 {
		t.Errorf("Expected ValidolProtection to pause entrainment, got %v", got)
	}
}

func TestBurnTickAmount(t *testing.T) {
	if got := BurnTickAmount(4, 1.0, false, false); got != 4 {
		t.Errorf("Expected unmodified burn of 4, got %v", got)
	}
	if got := BurnTickAmount(4, 1.5, false, false); got != 6 {
		t.Errorf("Expected fire vulnerability to scale burn, got %v", got)
	}
	if got := BurnTickAmount(4, 1.0, true, false); got != 2 {
		t.Errorf("Expected FireResistance to halve burn, got %v", got)
	}
	if got := BurnTickAmount(4, 1.0, false, true); got != 0 {
		t.Errorf("Expected SafeZone to nullify burn, got %v", got)
	}
}

func TestExtendBleed(t *testing.T) {
	// Two bleeds (d1, t1) and (d2, t2) combine additively: totals sum,
	// ends_at extends by the second duration.
	total, endsAt := ExtendBleed(10, 6_000_000, 15, 4_000_000)
	if total != 25 {
		t.Errorf("Expected combined total 25, got %v", total)
	}
	if endsAt != 10_000_000 {
		t.Errorf("Expected ends_at extended additively to 10s, got %v", endsAt)
	}
}

func TestCookingSpeedMultiplier(t *testing.T) {
	if m := CookingSpeedMultiplier(false, false); m != 1.0 {
		t.Errorf("Expected baseline speed 1.0, got %v", m)
	}
	if m := CookingSpeedMultiplier(true, false); m != 1.2 {
		t.Errorf("Expected Reed Bellows x1.2, got %v", m)
	}
	// Multipliers stack multiplicatively: 1.2 * 2.0.
	if m := CookingSpeedMultiplier(true, true); m < 2.39 || m > 2.41 {
		t.Errorf("Expected stacked x2.4, got %v", m)
	}
}

func TestFuelSecondsConsumed(t *testing.T) {
	if got := FuelSecondsConsumed(1, false); got != 1 {
		t.Errorf("Expected 1s of fuel per 1s tick, got %v", got)
	}
	// Reed Bellows slows burn to 1/1.5.
	got := FuelSecondsConsumed(1, true)
	if got < 0.66 || got > 0.67 {
		t.Errorf("Expected ~0.667s of fuel per tick with bellows, got %v", got)
	}
}

func TestRainWaterRateByClass(t *testing.T) {
	cases := map[int]float32{0: 0, 1: 1, 2: 2.5, 3: 4, 4: 6}
	for class, want := range cases {
		if got := RainWaterMLPerSecF(class); got != want {
			t.Errorf("Expected class %d to collect %v ml/s, got %v", class, want, got)
		}
	}
}
