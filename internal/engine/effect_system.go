package engine

import (
	"time"

	"github.com/emberreach/server/internal/domain/effect"
	"github.com/emberreach/server/internal/domain/item"
	"github.com/emberreach/server/internal/domain/player"
	"github.com/emberreach/server/internal/domain/rules"
	"github.com/emberreach/server/internal/domain/weather"
	"github.com/emberreach/server/internal/domain/world"
	"github.com/emberreach/server/internal/events"
	"github.com/emberreach/server/internal/platform/logger"
	"github.com/emberreach/server/internal/platform/metrics"
)

// EffectSystem runs the global 1-second active-effect tick: every
// damage/heal-over-time row is advanced, expired rows are removed, and
// a handful of special-cased effect types (Venom, Entrainment, Burn,
// SeawaterPoisoning) get their fixed-rate formulas instead of the
// generic DoT math.
type EffectSystem struct {
	engine   *Engine
	eventLog *events.EventLog
	logger   *logger.Logger
	weather  weather.Provider
}

// NewEffectSystem builds an effect system bound to the engine's shared
// state.
func NewEffectSystem(e *Engine, eventLog *events.EventLog, log *logger.Logger, w weather.Provider) *EffectSystem {
	return &EffectSystem{engine: e, eventLog: eventLog, logger: log, weather: w}
}

// ApplyEffect inserts a new active-effect row, extending an existing
// same-type same-player row instead of creating a duplicate when the
// type is extendable (Bleed, SeawaterPoisoning, FoodPoisoning).
func (s *EffectSystem) ApplyEffect(e *effect.ActiveConsumableEffect) {
	if effect.IsExtendable(e.Type) {
		for _, existing := range s.engine.effects {
			if existing.PlayerID == e.PlayerID && existing.Type == e.Type {
				if e.Type == effect.Bleed {
					stacks := int(existing.TotalAmount/10) + 1
					if stacks > rules.MaxBleedStacks {
						return
					}
				}
				newTotal, newEndsAt := rules.ExtendBleed(
					existing.TotalAmount, existing.EndsAt,
					e.TotalAmount, e.EndsAt-e.StartedAt,
				)
				existing.TotalAmount = newTotal
				existing.EndsAt = newEndsAt
				return
			}
		}
	}
	s.engine.effects[e.EffectID] = e
	metrics.Get().RecordEffectApplied()
	s.eventLog.Append(events.GameEvent{
		ID: events.GenerateEventID(), Timestamp: time.UnixMicro(e.StartedAt),
		Type: events.EventTypeEffectApplied, ActorID: events.SystemActorID, TargetID: e.PlayerID,
		Payload: events.EffectAppliedPayload{
			EffectID: e.EffectID, PlayerID: e.PlayerID, EffectType: string(e.Type),
			TotalAmount: e.TotalAmount, EndsAt: e.EndsAt,
		},
	})
}

// CancelEffect removes an active-effect row before its natural
// expiry without consuming any backing item — used by every early-removal
// path: RemoteBandageBurst range loss, damage interruption of bandages
// and regen, HealthRegen full-health cancellation, cures, extinguished
// Burn, and leaving a zone.
func (s *EffectSystem) CancelEffect(effectID, reason string) {
	e, ok := s.engine.effects[effectID]
	if !ok {
		return
	}
	delete(s.engine.effects, effectID)
	s.eventLog.Append(events.GameEvent{
		ID: events.GenerateEventID(), Timestamp: time.Now(),
		Type: events.EventTypeEffectCancelled, ActorID: events.SystemActorID, TargetID: e.PlayerID,
		Payload: events.EffectCancelledPayload{EffectID: effectID, PlayerID: e.PlayerID, Reason: reason},
	})
}

// OnGlobalTick advances every active-effect row one tick.
func (s *EffectSystem) OnGlobalTick(ev events.GameEvent) {
	payload, ok := ev.Payload.(events.GlobalTickPayload)
	if !ok {
		return
	}
	now := payload.NowMicros

	s.engine.proximitySystem.RefreshAllInsideBuilding()
	s.scanHotLadleBurns(now)

	for id, e := range s.engine.effects {
		if effect.IsPositionalFlag(e.Type) {
			continue // owned by the proximity scanner, not the tick.
		}
		if now < e.NextTickAt {
			continue
		}
		target := s.engine.GetPlayer(targetOf(e))
		if target == nil {
			delete(s.engine.effects, id)
			continue
		}
		if target.IsKnockedOut && effect.IsKnockedOutImmune(e.Type) {
			e.NextTickAt = now + e.TickIntervalMicros
			continue
		}

		switch e.Type {
		case effect.Venom:
			s.applyDamage(target, rules.VenomTickAmount(s.hasBuff(target.ID, effect.PoisonResistance)), now, false)
		case effect.Entrainment:
			s.applyDamage(target, rules.EntrainmentTickAmount(s.hasBuff(target.ID, effect.ValidolProtection)), now, false)
		case effect.Burn:
			base := rules.DotTickAmount(dotParamsOf(e))
			amount := rules.BurnTickAmount(base, 1.0,
				s.hasBuff(target.ID, effect.FireResistance), s.hasBuff(target.ID, effect.SafeZone))
			// Only Burn stamps last_hit_time among the DoTs — it alone
			// drives the client red-flash/screenshake.
			s.applyDamage(target, amount, now, true)
			e.AmountAppliedSoFar += amount
		case effect.Bleed:
			amount := rules.DotTickAmount(dotParamsOf(e))
			s.applyDamage(target, amount, now, false)
			e.AmountAppliedSoFar += amount
		case effect.SeawaterPoisoning:
			target.Thirst -= rules.SeawaterPoisoningThirstDrainPerSec * float32(e.TickIntervalMicros) / 1e6
			target.ClampStats()
			s.cancelHealthRegen(target.ID)
		case effect.HealthRegen, effect.PassiveHealthRegen:
			amount := rules.DotTickAmount(dotParamsOf(e))
			target.Heal(amount)
			e.AmountAppliedSoFar += amount
			if target.Health >= player.MaxStatValue {
				s.CancelEffect(e.EffectID, "full_health")
				continue
			}
		case effect.BandageBurst, effect.RemoteBandageBurst:
			// Unlike the gradual heal-over-time types, a bandage burst
			// applies its full total_amount in one lump only once the
			// duration has fully elapsed — nothing heals on intermediate
			// ticks, so a mid-duration interruption (cancelBandageOnDamage)
			// leaves the target's health untouched.
			if now >= e.EndsAt {
				inRange := true
				if e.Type == effect.RemoteBandageBurst {
					healer := s.engine.GetPlayer(e.PlayerID)
					inRange = healer != nil && rules.DistanceSquared(
						rules.Vec2{X: healer.X, Y: healer.Y}, rules.Vec2{X: target.X, Y: target.Y},
					) <= rules.RemoteBandageHealRangePx*rules.RemoteBandageHealRangePx
				}
				if inRange {
					target.Heal(e.TotalAmount - e.AmountAppliedSoFar)
					e.AmountAppliedSoFar = e.TotalAmount
					for _, bleed := range s.engine.effects {
						if bleed.PlayerID == target.ID && bleed.Type == effect.Bleed {
							delete(s.engine.effects, bleed.EffectID)
						}
					}
				} else {
					s.CancelEffect(e.EffectID, "out_of_range")
					continue
				}
			}
		default:
			amount := rules.DotTickAmount(dotParamsOf(e))
			if effect.IsDamageOverTime(e.Type) {
				s.applyDamage(target, amount, now, false)
			} else {
				target.Heal(amount)
			}
			e.AmountAppliedSoFar += amount
		}

		e.NextTickAt = now + e.TickIntervalMicros

		if now >= e.EndsAt && !e.IsPermanent() {
			delete(s.engine.effects, id)
			if e.ConsumingItemInstanceID != "" {
				s.consumeBackingItem(e)
			}
			metrics.Get().RecordEffectExpired()
			s.eventLog.Append(events.GameEvent{
				ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
				Type: events.EventTypeEffectExpired, ActorID: events.SystemActorID, TargetID: e.PlayerID,
				Payload: events.EffectCancelledPayload{EffectID: e.EffectID, PlayerID: e.PlayerID, Reason: "expired"},
			})
		}
	}

	s.scanEnvironmentWetness(now)
}

// consumeBackingItem decrements the item stack a naturally-ended effect
// was consuming (a bandage, a brew). A missing instance is a soft
// reference: logged and skipped, never an error. The cancel paths
// deliberately do not call this — an interrupted bandage is not spent.
func (s *EffectSystem) consumeBackingItem(e *effect.ActiveConsumableEffect) {
	if ok := s.engine.inventorySystem.DecrementInstance(e.PlayerID, e.ConsumingItemInstanceID); !ok {
		s.logger.Warn("effect " + e.EffectID + " referenced missing consuming item " + e.ConsumingItemInstanceID + "; skipped")
	}
}

// scanEnvironmentWetness is the tick's closing environment pass: players
// standing in any rain outside a building gain Wet; players back under
// cover lose it; and an actively Wet player has every Burn row
// extinguished.
func (s *EffectSystem) scanEnvironmentWetness(now int64) {
	for _, p := range s.engine.GetPlayers() {
		if !p.IsOnline || p.IsDead {
			continue
		}
		raining := s.weather.CurrentWeather(world.ChunkIndex(p.X, p.Y)) != weather.Clear
		wet := raining && !p.IsInsideBuilding
		s.engine.proximitySystem.setFlag(p.ID, effect.Wet, wet)
		if wet {
			for id, e := range s.engine.effects {
				if e.Type == effect.Burn && targetOf(e) == p.ID {
					s.CancelEffect(id, "extinguished")
				}
			}
		}
	}
}

// ApplyExternalDamage is the shared "player took a hit" entrypoint for
// every externally-sourced damage path outside the projectile ballistic
// pipeline (melee, explosives). It stamps the hit, runs the bandage
// interruption rule, and appends the standard damage/death events.
func (s *EffectSystem) ApplyExternalDamage(targetID, sourceID string, amount float32) bool {
	target := s.engine.GetPlayer(targetID)
	if target == nil || !target.IsLiving() {
		return false
	}
	now := time.Now().UnixMicro()
	target.ApplyDamage(amount, now, true)
	s.cancelBandageOnDamage(targetID)

	s.eventLog.Append(events.GameEvent{
		ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
		Type: events.EventTypePlayerDamaged, ActorID: sourceID, TargetID: targetID,
		Payload: events.PlayerDamagedPayload{PlayerID: targetID, Amount: amount, Source: sourceID},
	})
	if target.IsDead {
		s.eventLog.Append(events.GameEvent{
			ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
			Type: events.EventTypePlayerDied, ActorID: events.SystemActorID, TargetID: targetID,
			Payload: events.PlayerDiedPayload{PlayerID: targetID, X: target.X, Y: target.Y},
		})
	}
	return true
}

// cancelBandageOnDamage interrupts any BandageBurst/RemoteBandageBurst
// targeting playerID — "took externally-sourced damage this tick" cancels
// the burst immediately rather than waiting for the next global tick's
// batch pass, which is equivalent for a synchronous single-dispatch
// engine and simpler to reason about.
func (s *EffectSystem) cancelBandageOnDamage(playerID string) {
	for _, e := range s.engine.effects {
		if (e.Type == effect.BandageBurst || e.Type == effect.RemoteBandageBurst) && targetOf(e) == playerID {
			s.CancelEffect(e.EffectID, "damaged")
		}
	}
}

func (s *EffectSystem) applyDamage(p *player.Player, amount float32, now int64, stampHit bool) {
	p.ApplyDamage(amount, now, stampHit)
	s.cancelHealthRegen(p.ID)
	if p.IsDead {
		s.eventLog.Append(events.GameEvent{
			ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
			Type: events.EventTypePlayerDied, ActorID: events.SystemActorID, TargetID: p.ID,
			Payload: events.PlayerDiedPayload{PlayerID: p.ID, X: p.X, Y: p.Y},
		})
	}
}

// cancelHealthRegen cancels any active HealthRegen/PassiveHealthRegen row
// on playerID — a player who just lost health to a DoT this tick (Burn,
// Bleed, Venom, Entrainment, Poisoned, FoodPoisoning) loses any regen in
// progress rather than having it partially offset the loss.
func (s *EffectSystem) cancelHealthRegen(playerID string) {
	for id, e := range s.engine.effects {
		if e.PlayerID == playerID && (e.Type == effect.HealthRegen || e.Type == effect.PassiveHealthRegen) {
			s.CancelEffect(id, "damaged")
		}
	}
}

// hasBuff reports whether playerID currently carries an active-effect
// row of type t — used for the handful of cross-effect modifiers
// (PoisonResistance reducing Venom, FireResistance halving Burn, ...).
func (s *EffectSystem) hasBuff(playerID string, t effect.Type) bool {
	for _, e := range s.engine.effects {
		if e.PlayerID == playerID && e.Type == t {
			return true
		}
	}
	return false
}

// scanHotLadleBurns applies the self-inflicted Hot Ladle burn to every
// living player currently wielding one bare-handed — no restacking onto
// an already-running HOT_LADLE_SELF row.
func (s *EffectSystem) scanHotLadleBurns(now int64) {
	const hotLadleSource = "HOT_LADLE_SELF"
	for _, p := range s.engine.GetPlayers() {
		if !p.IsLiving() || p.HeldItemDefID != item.HotLadle {
			continue
		}
		if p.Equipment.HandsItemDefID == item.Gloves {
			continue
		}
		if s.hasSourcedBurn(p.ID, hotLadleSource) {
			continue
		}
		s.ApplyEffect(newHotLadleBurn(p.ID, now))
	}
}

// hasSourcedBurn reports whether playerID already carries a Burn row
// whose SourceDefID matches source — the "do not restack the same
// source" rule shared by the hot-ladle self-burn and the campfire
// proximity damage zone.
func (s *EffectSystem) hasSourcedBurn(playerID, source string) bool {
	for _, e := range s.engine.effects {
		if e.PlayerID == playerID && e.Type == effect.Burn && e.SourceDefID == source {
			return true
		}
	}
	return false
}

func targetOf(e *effect.ActiveConsumableEffect) string {
	if e.TargetPlayerID != "" {
		return e.TargetPlayerID
	}
	return e.PlayerID
}

func dotParamsOf(e *effect.ActiveConsumableEffect) rules.DotTickParams {
	return rules.DotTickParams{
		TotalAmount:        e.TotalAmount,
		AmountAppliedSoFar: e.AmountAppliedSoFar,
		DurationMicros:     e.EndsAt - e.StartedAt,
		TickIntervalMicros: e.TickIntervalMicros,
	}
}
