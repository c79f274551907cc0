package engine

import (
	"github.com/emberreach/server/internal/domain/effect"
	"github.com/emberreach/server/internal/domain/player"
	"github.com/emberreach/server/internal/domain/rules"
	"github.com/emberreach/server/internal/platform/logger"
)

// ProximitySystem maintains the positional-flag effects (Cozy, SafeZone,
// BuildingPrivilege): these carry no per-tick work of their own, only
// presence/absence, and the global tick's effect loop skips them. Cozy
// is refreshed by RefreshCozy when a player's position changes;
// BuildingPrivilege is refreshed by RefreshAllInsideBuilding at the start
// of each global tick. Wet is not one of these flags: the global tick's
// environment pass (EffectSystem.scanEnvironmentWetness) sets and clears it.
type ProximitySystem struct {
	engine *Engine
	logger *logger.Logger

	players map[string]*player.Player
}

// NewProximitySystem builds a proximity system.
func NewProximitySystem(e *Engine, log *logger.Logger) *ProximitySystem {
	return &ProximitySystem{engine: e, logger: log, players: make(map[string]*player.Player)}
}

// RegisterPlayer tracks a player for proximity scans.
func (s *ProximitySystem) RegisterPlayer(p *player.Player) { s.players[p.ID] = p }

// RefreshCozy recomputes a single player's Cozy flag against every
// registered campfire (PeltCozyRadiusPx) and the village-wide
// VillageCozyRadiusPx check the transport layer supplies as
// inVillage. Call this whenever the player's position changes.
func (s *ProximitySystem) RefreshCozy(playerID string, inVillage bool) {
	p, ok := s.players[playerID]
	if !ok {
		return
	}
	cozy := inVillage
	if !cozy {
		for _, c := range s.engine.campfires {
			if !c.IsBurning {
				continue
			}
			if rules.DistanceSquared(rules.Vec2{X: p.X, Y: p.Y}, rules.Vec2{X: c.X, Y: c.Y}) <=
				rules.PeltCozyRadiusPx*rules.PeltCozyRadiusPx {
				cozy = true
				break
			}
		}
	}
	s.setFlag(playerID, effect.Cozy, cozy)
}

// RefreshWarmth reports whether playerID currently sits within
// WarmthRadiusPx of a burning campfire — consumed by the warmth-stat
// reducer, not modeled as its own effect row.
func (s *ProximitySystem) RefreshWarmth(playerID string) bool {
	p, ok := s.players[playerID]
	if !ok {
		return false
	}
	for _, c := range s.engine.campfires {
		if !c.IsBurning {
			continue
		}
		if rules.DistanceSquared(rules.Vec2{X: p.X, Y: p.Y}, rules.Vec2{X: c.X, Y: c.Y}) <=
			rules.WarmthRadiusPx*rules.WarmthRadiusPx {
			return true
		}
	}
	return false
}

// RefreshInsideBuilding recomputes playerID's IsInsideBuilding flag and
// the BuildingPrivilege effect it gates, against every registered
// shelter and shipwreck zone.
func (s *ProximitySystem) RefreshInsideBuilding(playerID string) {
	p, ok := s.players[playerID]
	if !ok {
		return
	}
	inside := s.engine.IsInsideBuilding(p.X, p.Y)
	p.IsInsideBuilding = inside
	s.setFlag(playerID, effect.BuildingPrivilege, inside)
}

// RefreshAllInsideBuilding runs RefreshInsideBuilding for every
// registered player — the global tick's step-1 shelter/shipwreck scan.
func (s *ProximitySystem) RefreshAllInsideBuilding() {
	for id := range s.players {
		s.RefreshInsideBuilding(id)
	}
}

// setFlag adds or removes a permanent positional-flag effect row for a
// player, idempotently.
func (s *ProximitySystem) setFlag(playerID string, t effect.Type, present bool) {
	var existingID string
	for id, e := range s.engine.effects {
		if e.PlayerID == playerID && e.Type == t {
			existingID = id
			break
		}
	}
	if present {
		if existingID != "" {
			return
		}
		s.engine.effectSystem.ApplyEffect(&effect.ActiveConsumableEffect{
			EffectID: genFlagID(playerID, t), PlayerID: playerID, Type: t,
			StartedAt: 0, EndsAt: effect.EntrainmentSentinelMicros,
		})
		return
	}
	if existingID != "" {
		s.engine.effectSystem.CancelEffect(existingID, "left_zone")
	}
}

func genFlagID(playerID string, t effect.Type) string {
	return playerID + ":" + string(t)
}
