package engine

import (
	"testing"
	"time"

	"github.com/emberreach/server/internal/domain/effect"
	"github.com/emberreach/server/internal/domain/item"
	"github.com/emberreach/server/internal/domain/player"
	"github.com/emberreach/server/internal/domain/weather"
	"github.com/emberreach/server/internal/domain/world"
	"github.com/emberreach/server/internal/events"
	"github.com/emberreach/server/internal/platform/logger"
)

func newTestEngineWithWeather() (*Engine, *weather.StaticProvider) {
	wp := weather.NewStaticProvider()
	return NewEngine(events.NewEventLog(nil), logger.NewLogger(), wp), wp
}

// Applying Bleed twice yields one row whose total is the sum and whose
// ends_at is extended additively.
func TestBleedStacksIntoSingleRow(t *testing.T) {
	e := newTestEngine()
	p := player.NewPlayer("A", "A", 0, 0)
	e.RegisterPlayer(p)

	start := time.Now().UnixMicro()
	e.effectSystem.ApplyEffect(&effect.ActiveConsumableEffect{
		EffectID: "bleed-1", PlayerID: "A", Type: effect.Bleed,
		StartedAt: start, EndsAt: start + 6_000_000,
		TotalAmount: 10, TickIntervalMicros: 1_000_000, NextTickAt: start + 1_000_000,
	})
	e.effectSystem.ApplyEffect(&effect.ActiveConsumableEffect{
		EffectID: "bleed-2", PlayerID: "A", Type: effect.Bleed,
		StartedAt: start, EndsAt: start + 4_000_000,
		TotalAmount: 15, TickIntervalMicros: 1_000_000, NextTickAt: start + 1_000_000,
	})

	var rows []*effect.ActiveConsumableEffect
	for _, eff := range e.effects {
		if eff.PlayerID == "A" && eff.Type == effect.Bleed {
			rows = append(rows, eff)
		}
	}
	if len(rows) != 1 {
		t.Fatalf("Expected a single combined Bleed row, got %d", len(rows))
	}
	if rows[0].TotalAmount != 25 {
		t.Errorf("Expected combined total 25, got %v", rows[0].TotalAmount)
	}
	if rows[0].EndsAt != start+6_000_000+4_000_000 {
		t.Errorf("Expected ends_at extended by the second duration")
	}
}

// A knocked-out player takes no DoT damage, but the effect row stays
// alive and resumes once they are back up.
func TestKnockedOutDoTImmunity(t *testing.T) {
	e := newTestEngine()
	p := player.NewPlayer("A", "A", 0, 0)
	p.IsKnockedOut = true
	e.RegisterPlayer(p)

	now := time.Now().UnixMicro()
	e.effectSystem.ApplyEffect(&effect.ActiveConsumableEffect{
		EffectID: "bleed-1", PlayerID: "A", Type: effect.Bleed,
		StartedAt: now - 1_000_000, EndsAt: now + 5_000_000,
		TotalAmount: 12, TickIntervalMicros: 1_000_000, NextTickAt: now,
	})

	e.effectSystem.OnGlobalTick(events.GameEvent{Payload: events.GlobalTickPayload{NowMicros: now}})

	if p.Health != 100 {
		t.Errorf("Expected no bleed damage while knocked out, got %v", p.Health)
	}
	if _, ok := e.effects["bleed-1"]; !ok {
		t.Errorf("Expected the bleed row to survive the immune tick")
	}
}

// SeawaterPoisoning drains thirst, never health.
func TestSeawaterPoisoningDrainsThirst(t *testing.T) {
	e := newTestEngine()
	p := player.NewPlayer("A", "A", 0, 0)
	e.RegisterPlayer(p)

	now := time.Now().UnixMicro()
	e.effectSystem.ApplyEffect(&effect.ActiveConsumableEffect{
		EffectID: "sea-1", PlayerID: "A", Type: effect.SeawaterPoisoning,
		StartedAt: now - 1_000_000, EndsAt: now + 10_000_000,
		TickIntervalMicros: 1_000_000, NextTickAt: now,
	})

	e.effectSystem.OnGlobalTick(events.GameEvent{Payload: events.GlobalTickPayload{NowMicros: now}})

	if p.Thirst != 97.5 {
		t.Errorf("Expected 2.5 thirst drained, got %v", p.Thirst)
	}
	if p.Health != 100 {
		t.Errorf("Expected health untouched, got %v", p.Health)
	}
}

// A naturally-ended effect consumes one unit of its backing item; the
// cancel path (exercised by the bandage-interrupt scenario) does not.
func TestExpiredEffectConsumesBackingItem(t *testing.T) {
	e := newTestEngine()
	p := player.NewPlayer("A", "A", 0, 0)
	p.Health = 50
	e.RegisterPlayer(p)
	if _, _, err := e.GrantItem("A", "band-1", item.Bandage, 2); err != nil {
		t.Fatalf("Expected grant to succeed, got %v", err)
	}

	now := time.Now().UnixMicro()
	e.effectSystem.ApplyEffect(&effect.ActiveConsumableEffect{
		EffectID: "regen-1", PlayerID: "A", Type: effect.HealthRegen,
		ConsumingItemInstanceID: "band-1",
		StartedAt:               now - 5_000_000, EndsAt: now,
		TotalAmount: 10, TickIntervalMicros: 1_000_000, NextTickAt: now,
	})

	e.effectSystem.OnGlobalTick(events.GameEvent{Payload: events.GlobalTickPayload{NowMicros: now}})

	if _, ok := e.effects["regen-1"]; ok {
		t.Fatalf("Expected the expired regen row deleted")
	}
	for _, it := range e.inventorySystem.Snapshot("A") {
		if it.InstanceID == "band-1" && it.Quantity != 1 {
			t.Errorf("Expected the bandage stack decremented to 1, got %d", it.Quantity)
		}
	}
}

// A DoT hit cancels any HealthRegen in progress on the same player.
func TestDoTCancelsHealthRegen(t *testing.T) {
	e := newTestEngine()
	p := player.NewPlayer("A", "A", 0, 0)
	p.Health = 50
	e.RegisterPlayer(p)

	now := time.Now().UnixMicro()
	e.effectSystem.ApplyEffect(&effect.ActiveConsumableEffect{
		EffectID: "regen-1", PlayerID: "A", Type: effect.HealthRegen,
		StartedAt: now, EndsAt: now + 10_000_000,
		TotalAmount: 20, TickIntervalMicros: 1_000_000, NextTickAt: now + 10_000_000,
	})
	e.effectSystem.ApplyEffect(&effect.ActiveConsumableEffect{
		EffectID: "venom-1", PlayerID: "A", Type: effect.Venom,
		StartedAt: now - 1_000_000, EndsAt: now + 10_000_000,
		TickIntervalMicros: 1_000_000, NextTickAt: now,
	})

	e.effectSystem.OnGlobalTick(events.GameEvent{Payload: events.GlobalTickPayload{NowMicros: now}})

	if _, ok := e.effects["regen-1"]; ok {
		t.Errorf("Expected HealthRegen cancelled by the venom tick")
	}
	if p.Health != 49 {
		t.Errorf("Expected venom's fixed 1 HP tick, got health %v", p.Health)
	}
}

// Rain wets an exposed player and extinguishes their burns; cover keeps
// them dry.
func TestRainWetsAndExtinguishes(t *testing.T) {
	e, wp := newTestEngineWithWeather()
	p := player.NewPlayer("A", "A", 100, 100)
	p.IsOnline = true
	e.RegisterPlayer(p)
	wp.Set(world.ChunkIndex(p.X, p.Y), weather.Rain)

	now := time.Now().UnixMicro()
	e.effectSystem.ApplyEffect(&effect.ActiveConsumableEffect{
		EffectID: "burn-1", PlayerID: "A", Type: effect.Burn,
		StartedAt: now, EndsAt: now + 5_000_000,
		TotalAmount: 5, TickIntervalMicros: 2_000_000, NextTickAt: now + 2_000_000,
	})

	e.effectSystem.OnGlobalTick(events.GameEvent{Payload: events.GlobalTickPayload{NowMicros: now}})

	if _, ok := e.effects["burn-1"]; ok {
		t.Errorf("Expected the burn extinguished by rain")
	}
	hasWet := false
	for _, eff := range e.effects {
		if eff.PlayerID == "A" && eff.Type == effect.Wet {
			hasWet = true
		}
	}
	if !hasWet {
		t.Errorf("Expected a Wet flag on the exposed player")
	}

	// Under a shelter the flag lifts again.
	e.RegisterShelter(&world.Shelter{ID: "s1", MinX: 0, MinY: 0, MaxX: 200, MaxY: 200})
	e.effectSystem.OnGlobalTick(events.GameEvent{Payload: events.GlobalTickPayload{NowMicros: now + 1_000_000}})
	for _, eff := range e.effects {
		if eff.PlayerID == "A" && eff.Type == effect.Wet {
			t.Errorf("Expected the Wet flag removed under cover")
		}
	}
}

// Consuming an Anti-Venom cures Venom rows, including the permanent
// spittle-sourced kind.
func TestAntiVenomCuresVenom(t *testing.T) {
	e := newTestEngine()
	p := player.NewPlayer("A", "A", 0, 0)
	e.RegisterPlayer(p)
	if _, _, err := e.GrantItem("A", "av-1", item.AntiVenom, 1); err != nil {
		t.Fatalf("Expected grant to succeed, got %v", err)
	}

	now := time.Now().UnixMicro()
	e.effectSystem.ApplyEffect(newNPCVenom("A", now))

	if _, err := e.ConsumeItem("A", "av-1"); err != nil {
		t.Fatalf("Expected consumption to succeed, got %v", err)
	}
	for _, eff := range e.effects {
		if eff.PlayerID == "A" && eff.Type == effect.Venom {
			t.Errorf("Expected the venom row cured")
		}
	}
}
