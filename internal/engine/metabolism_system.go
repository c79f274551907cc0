package engine

import (
	"github.com/emberreach/server/internal/domain/effect"
	"github.com/emberreach/server/internal/domain/player"
	"github.com/emberreach/server/internal/events"
	"github.com/emberreach/server/internal/platform/logger"
)

// Passive metabolism rates, applied once per MetabolismTick
// (MetabolismTickIntervalMicros apart). These are ambient survival
// mechanics the distilled specification names as Player stat columns
// (§3) but does not itself formula-specify — the active-effect engine
// (§4.1) only covers effect-driven stat changes, not baseline decay.
const (
	hungerDrainPerTick float32 = 1.0
	thirstDrainPerTick float32 = 1.5
	warmthDrainPerTick float32 = 0.5
	warmthGainPerTick  float32 = 2.0

	// starvingHealthDrainPerTick applies when hunger or thirst has
	// already bottomed out.
	starvingHealthDrainPerTick float32 = 1.0
)

// MetabolismSystem drains hunger/thirst/warmth for every online, living
// player and converts sustained starvation/dehydration/cold into health
// loss. Warmth recovers instead of draining while the player carries a
// Cozy flag (maintained by the proximity scanner, §4.1 "Cozy").
type MetabolismSystem struct {
	engine   *Engine
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewMetabolismSystem builds a metabolism system bound to the engine's
// shared player state.
func NewMetabolismSystem(e *Engine, eventLog *events.EventLog, log *logger.Logger) *MetabolismSystem {
	return &MetabolismSystem{engine: e, eventLog: eventLog, logger: log}
}

// OnMetabolismTick drains hunger/thirst/warmth for every online, living
// player and applies starvation/dehydration/exposure damage once a stat
// has bottomed out.
func (m *MetabolismSystem) OnMetabolismTick(ev events.GameEvent) {
	if _, ok := ev.Payload.(events.MetabolismTickPayload); !ok {
		return
	}

	for _, p := range m.engine.players {
		if !p.IsOnline || p.IsDead {
			continue
		}

		p.Hunger -= hungerDrainPerTick
		p.Thirst -= thirstDrainPerTick

		if m.hasCozy(p.ID) {
			p.Warmth += warmthGainPerTick
		} else {
			p.Warmth -= warmthDrainPerTick
		}
		p.ClampStats()

		if p.Hunger <= player.MinStatValue || p.Thirst <= player.MinStatValue || p.Warmth <= player.MinStatValue {
			p.ApplyDamage(starvingHealthDrainPerTick, ev.Timestamp.UnixMicro(), false)
			if p.IsDead {
				m.eventLog.Append(events.GameEvent{
					ID: events.GenerateEventID(), Timestamp: ev.Timestamp,
					Type: events.EventTypePlayerDied, ActorID: events.SystemActorID, TargetID: p.ID,
					Payload: events.PlayerDiedPayload{PlayerID: p.ID, X: p.X, Y: p.Y},
				})
			}
		}
	}
}

// hasCozy reports whether playerID currently carries the Cozy
// positional flag — duplicated from EffectSystem.hasBuff rather than
// shared, since each tick subsystem only needs a one-line scan of the
// engine's shared effects map and holds no other state in common.
func (m *MetabolismSystem) hasCozy(playerID string) bool {
	for _, e := range m.engine.effects {
		if e.PlayerID == playerID && e.Type == effect.Cozy {
			return true
		}
	}
	return false
}
