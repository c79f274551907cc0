package engine

import (
	"github.com/emberreach/server/internal/domain/effect"
	"github.com/emberreach/server/internal/domain/rules"
	"github.com/emberreach/server/internal/events"
)

// newCampfireZoneBurn builds the Burn row applied to a player standing
// inside a campfire's proximity damage radius.
func newCampfireZoneBurn(playerID, campfireID string, now int64) *effect.ActiveConsumableEffect {
	durationMicros := int64(rules.CampfireZoneBurnDurationS * 1e6)
	tickMicros := int64(rules.CampfireZoneBurnTickS * 1e6)
	return &effect.ActiveConsumableEffect{
		EffectID: events.GenerateEventID(), PlayerID: playerID,
		StartedAt: now, EndsAt: now + durationMicros, NextTickAt: now + tickMicros,
		TotalAmount: rules.CampfireZoneBurnTotal, Type: effect.Burn,
		TickIntervalMicros: tickMicros, SourceDefID: campfireID,
	}
}

// newHotLadleBurn builds the Burn row applied to a player who swings a
// Hot Ladle weapon (self-inflicted, scaled down from the zone burn).
func newHotLadleBurn(playerID string, now int64) *effect.ActiveConsumableEffect {
	durationMicros := int64(rules.HotLadleBurnDurationS * 1e6)
	tickMicros := int64(rules.HotLadleBurnTickS * 1e6)
	return &effect.ActiveConsumableEffect{
		EffectID: events.GenerateEventID(), PlayerID: playerID,
		StartedAt: now, EndsAt: now + durationMicros, NextTickAt: now + tickMicros,
		TotalAmount: rules.HotLadleBurnTotal, Type: effect.Burn,
		TickIntervalMicros: tickMicros, SourceDefID: "HOT_LADLE_SELF",
	}
}

// newProjectileBleed builds the Bleed row applied on a successful hit
// whose ammo stats configure bleed (e.g. Wooden Arrow); amount and
// durationSecs come straight from the ammo catalogue row.
func newProjectileBleed(playerID string, amount, durationSecs float32, now int64) *effect.ActiveConsumableEffect {
	durationMicros := int64(durationSecs * 1e6)
	tickMicros := int64(rules.ProjectileBleedTickS * 1e6)
	return &effect.ActiveConsumableEffect{
		EffectID: events.GenerateEventID(), PlayerID: playerID,
		StartedAt: now, EndsAt: now + durationMicros, NextTickAt: now + tickMicros,
		TotalAmount: amount, Type: effect.Bleed,
		TickIntervalMicros: tickMicros,
	}
}

// newProjectileBurn builds the Burn row applied on a Fire Arrow hit.
func newProjectileBurn(playerID string, now int64) *effect.ActiveConsumableEffect {
	durationMicros := int64(rules.ProjectileBurnDurationS * 1e6)
	tickMicros := int64(rules.ProjectileBurnTickS * 1e6)
	return &effect.ActiveConsumableEffect{
		EffectID: events.GenerateEventID(), PlayerID: playerID,
		StartedAt: now, EndsAt: now + durationMicros, NextTickAt: now + tickMicros,
		TotalAmount: rules.ProjectileBurnTotal, Type: effect.Burn,
		TickIntervalMicros: tickMicros, SourceDefID: "FIRE_ARROW",
	}
}

// newProjectileVenom builds the Venom row applied on a Venom
// Arrow/Harpoon Dart hit; the per-tick amount comes from the fixed
// VenomFixedDamagePerTick formula, not TotalAmount.
func newProjectileVenom(playerID string, now int64) *effect.ActiveConsumableEffect {
	durationMicros := int64(rules.ProjectileVenomDurationS * 1e6)
	tickMicros := int64(rules.ProjectileVenomTickS * 1e6)
	return &effect.ActiveConsumableEffect{
		EffectID: events.GenerateEventID(), PlayerID: playerID,
		StartedAt: now, EndsAt: now + durationMicros, NextTickAt: now + tickMicros,
		Type: effect.Venom, TickIntervalMicros: tickMicros,
	}
}

// newNPCVenom builds the Venom row applied by a Viper's venom spittle:
// a sentinel-duration row that never times out, cured only by consuming
// an Anti-Venom.
func newNPCVenom(playerID string, now int64) *effect.ActiveConsumableEffect {
	tickMicros := int64(rules.ProjectileVenomTickS * 1e6)
	return &effect.ActiveConsumableEffect{
		EffectID: events.GenerateEventID(), PlayerID: playerID,
		StartedAt: now, EndsAt: now + effect.EntrainmentSentinelMicros, NextTickAt: now + tickMicros,
		Type: effect.Venom, TickIntervalMicros: tickMicros,
	}
}

// newThrownWeaponStun builds the Stun row applied on a blunt
// thrown-weapon hit.
func newThrownWeaponStun(playerID string, now int64) *effect.ActiveConsumableEffect {
	durationMicros := int64(rules.ThrownWeaponStunDurationS * 1e6)
	return &effect.ActiveConsumableEffect{
		EffectID: events.GenerateEventID(), PlayerID: playerID,
		StartedAt: now, EndsAt: now + durationMicros, NextTickAt: now + durationMicros,
		Type: effect.Stun, TickIntervalMicros: durationMicros,
	}
}
