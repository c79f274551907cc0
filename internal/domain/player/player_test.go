package player

import "testing"

func TestClampStats(t *testing.T) {
	p := NewPlayer("P1", "One", 0, 0)
	p.Health = 150
	p.Thirst = -5
	p.ClampStats()

	if p.Health != MaxStatValue {
		t.Errorf("Expected health clamped to %v, got %v", MaxStatValue, p.Health)
	}
	if p.Thirst != MinStatValue {
		t.Errorf("Expected thirst clamped to %v, got %v", MinStatValue, p.Thirst)
	}
}

func TestZeroHealthMeansDead(t *testing.T) {
	p := NewPlayer("P1", "One", 0, 0)
	p.ApplyDamage(100, 1_000_000, true)

	if !p.IsDead {
		t.Errorf("Expected is_dead once health reached 0")
	}
	if p.Health != 0 {
		t.Errorf("Expected health exactly 0, got %v", p.Health)
	}

	// Dead players neither take damage nor heal.
	p.ApplyDamage(10, 2_000_000, true)
	p.Heal(50)
	if p.Health != 0 {
		t.Errorf("Expected a dead player's health frozen at 0, got %v", p.Health)
	}
}

func TestApplyDamageStampsHitOnlyWhenAsked(t *testing.T) {
	p := NewPlayer("P1", "One", 0, 0)
	p.ApplyDamage(5, 1_000_000, false)
	if p.LastHitTime != 0 {
		t.Errorf("Expected passive damage not to stamp last_hit_time")
	}
	p.ApplyDamage(5, 2_000_000, true)
	if p.LastHitTime != 2_000_000 {
		t.Errorf("Expected external damage to stamp last_hit_time, got %d", p.LastHitTime)
	}
}

func TestIsPvPActive(t *testing.T) {
	p := NewPlayer("P1", "One", 0, 0)
	if !p.IsPvPActive(0) {
		t.Errorf("Expected PvP on by default")
	}

	p.IsPvPEnabled = false
	if p.IsPvPActive(1_000_000) {
		t.Errorf("Expected PvP off with no recent combat")
	}

	// A recent hit forces PvP on for the linger window.
	p.LastHitTime = 1_000_000
	if !p.IsPvPActive(1_000_000 + PvPCombatLingerMicros/2) {
		t.Errorf("Expected combat linger to keep PvP active")
	}
	if p.IsPvPActive(1_000_000 + PvPCombatLingerMicros + 1) {
		t.Errorf("Expected PvP to lapse after the linger window")
	}
}

func TestActiveEquipmentClear(t *testing.T) {
	p := NewPlayer("P1", "One", 0, 0)
	p.Equipment.HeadItemInstanceID = "helm-1"
	p.Equipment.ChestItemInstanceID = "vest-1"
	p.Equipment.Clear()

	if p.Equipment.HeadItemInstanceID != "" || p.Equipment.ChestItemInstanceID != "" {
		t.Errorf("Expected every armor slot emptied")
	}
}
