package engine

import (
	"errors"
	"math/rand"
	"time"

	"github.com/emberreach/server/internal/domain/appliance"
	"github.com/emberreach/server/internal/domain/item"
	"github.com/emberreach/server/internal/domain/rules"
	"github.com/emberreach/server/internal/domain/weather"
	"github.com/emberreach/server/internal/events"
	"github.com/emberreach/server/internal/platform/logger"
	"github.com/emberreach/server/internal/platform/metrics"
)

// ErrCampfireNotFound and its siblings are the campfire lighting gate's
// rejection reasons. ErrCampfireHeavyRain carries the exact wording the
// specification's literal scenario expects.
var (
	ErrCampfireNotFound  = errors.New("campfire not found")
	ErrCampfireNoFuel    = errors.New("campfire has no fuel")
	ErrCampfireHeavyRain = errors.New("Cannot light campfire in heavy rain unless it's inside a shelter or near a tree.")
	ErrCampfireOccupied  = errors.New("campfire is occupied by another player")
)

// fuelItems is the closed set of item definitions that can sustain a
// campfire's burn.
var fuelItems = map[item.DefID]bool{
	item.Wood: true, item.Charcoal: true, item.Pinecone: true, item.Tallow: true,
}

func isFuelItem(id item.DefID) bool { return fuelItems[id] }

// CampfireSystem owns the campfire's 1-second tick (fuel burn, cooking
// progress, proximity damage zone) and the lighting gate.
type CampfireSystem struct {
	engine   *Engine
	eventLog *events.EventLog
	logger   *logger.Logger
	weather  weather.Provider
}

// NewCampfireSystem builds a campfire system.
func NewCampfireSystem(e *Engine, eventLog *events.EventLog, log *logger.Logger, w weather.Provider) *CampfireSystem {
	return &CampfireSystem{engine: e, eventLog: eventLog, logger: log, weather: w}
}

// Light attempts to light a campfire. Heavy rain or storm requires the
// fire be inside a building (a registered Shelter or ShipwreckZone) or
// within CampfireRelightTreeRadiusPx of a registered Tree; clear
// weather or light rain never blocks lighting.
func (s *CampfireSystem) Light(campfireID string) error {
	c, ok := s.engine.campfires[campfireID]
	if !ok || c.IsDestroyed || c.IsBurning {
		return ErrCampfireNotFound
	}
	if !c.HasFuel(isFuelItem) {
		return ErrCampfireNoFuel
	}
	w := s.weather.CurrentWeather(c.ChunkID)
	if w.IsHeavy() && !s.engine.IsInsideBuilding(c.X, c.Y) && !s.engine.IsNearTreeCover(c.X, c.Y) {
		return ErrCampfireHeavyRain
	}

	c.IsBurning = true
	s.rescheduleFor(c)
	s.eventLog.Append(events.GameEvent{
		ID: events.GenerateEventID(), Timestamp: time.Now(),
		Type: events.EventTypeCampfireLit, ActorID: events.SystemActorID, TargetID: c.ID,
		Payload: events.CampfireLitPayload{CampfireID: c.ID},
	})
	return nil
}

// Open grants playerID interaction access to a campfire. Outside a
// registered SafeZone this always succeeds and simply (re)stamps the
// access clock; inside one, only a single active user is allowed at a
// time.
func (s *CampfireSystem) Open(campfireID, playerID string, now int64) error {
	c, ok := s.engine.campfires[campfireID]
	if !ok {
		return ErrCampfireNotFound
	}
	if s.engine.IsInSafeZone(c.X, c.Y) && c.ActiveUserID != "" && c.ActiveUserID != playerID {
		return ErrCampfireOccupied
	}
	c.ActiveUserID = playerID
	c.ActiveUserSince = now
	s.rescheduleFor(c)
	return nil
}

// Close releases playerID's interaction access, if they currently hold
// it.
func (s *CampfireSystem) Close(campfireID, playerID string) {
	c, ok := s.engine.campfires[campfireID]
	if !ok || c.ActiveUserID != playerID {
		return
	}
	c.ActiveUserID = ""
	c.ActiveUserSince = 0
}

// releaseStaleAccess clears ActiveUserID once its holder has
// disconnected, died, or drifted beyond AccessReleaseRangeMultiplier
// times the normal interaction range — garbage-collecting access a
// player never explicitly closed.
func (s *CampfireSystem) releaseStaleAccess(c *appliance.Campfire) {
	if c.ActiveUserID == "" {
		return
	}
	p := s.engine.GetPlayer(c.ActiveUserID)
	if p == nil || !p.IsLiving() || !p.IsOnline {
		c.ActiveUserID = ""
		c.ActiveUserSince = 0
		return
	}
	dx, dy := p.X-c.X, p.Y-c.Y
	releaseDistSq := rules.AccessReleaseRangeMultiplier * rules.AccessReleaseRangeMultiplier * rules.PlayerCampfireInteractionDistanceSquared
	if dx*dx+dy*dy > releaseDistSq {
		c.ActiveUserID = ""
		c.ActiveUserSince = 0
	}
}

// rescheduleFor installs or removes the campfire's tick job depending
// on whether it currently "needs work" — edge-triggered, like the
// furnace's; the broth pot and rain collector keep standing jobs instead.
func (s *CampfireSystem) rescheduleFor(c *appliance.Campfire) {
	needsWork := (c.IsBurning || c.ActiveUserID != "") && !c.IsDestroyed
	if needsWork {
		s.engine.scheduler.Upsert(JobCampfireTick, c.ID,
			time.Now().UnixMicro()+int64(time.Second/time.Microsecond), int64(time.Second/time.Microsecond))
	} else {
		s.engine.scheduler.Delete(JobCampfireTick, c.ID)
	}
}

// OnTick advances fuel burn, cook progress, and the proximity damage
// zone for one campfire.
func (s *CampfireSystem) OnTick(ev events.GameEvent) {
	c, ok := s.engine.campfires[ev.TargetID]
	if !ok {
		return
	}
	if !c.IsBurning {
		// Not burning, but this job still exists to garbage-collect a
		// stale ActiveUserID from an unlit campfire someone opened.
		s.releaseStaleAccess(c)
		s.rescheduleFor(c)
		return
	}
	metrics.Get().RecordCampfireTick()
	now := time.Now().UnixMicro()
	dt := float32(1.0) // 1-second cadence

	speed := rules.CookingSpeedMultiplier(c.HasReedBellows, c.InGreenRuneZone)
	c.IsCooking = false
	for i := 0; i < c.NumCookSlots(); i++ {
		if c.SlotDefIDs[i] == "" || c.SlotDefIDs[i] == item.MetalOre {
			continue // Metal Ore never cooks on a campfire, only in a furnace.
		}
		def, ok := item.Get(c.SlotDefIDs[i])
		if !ok || !def.IsFood {
			continue
		}
		c.IsCooking = true
		c.SlotCookProgress[i] += dt * speed
	}

	c.RemainingFuelBurnTimeSecs -= rules.FuelSecondsConsumed(dt, c.HasReedBellows)
	if c.RemainingFuelBurnTimeSecs <= 0 {
		s.consumeNextFuel(c)
	}

	if !c.HasFuel(isFuelItem) && c.RemainingFuelBurnTimeSecs <= 0 {
		c.IsBurning = false
		s.eventLog.Append(events.GameEvent{
			ID: events.GenerateEventID(), Timestamp: time.UnixMicro(now),
			Type: events.EventTypeCampfireExtinguished, ActorID: events.SystemActorID, TargetID: c.ID,
		})
	}

	s.applyDamageZone(c, now)
	s.releaseStaleAccess(c)
	s.rescheduleFor(c)
}

// consumeNextFuel burns one unit from the next fuel stack. Preference
// order matches the reload rule: another stack of the fuel def already
// burning first, then any slot holding any valid fuel. Burned Wood
// rolls WoodToCharcoalChance to yield a Charcoal, which stacks into an
// existing Charcoal slot, else lands in an empty slot, else is dropped
// as a world item beside the campfire.
func (s *CampfireSystem) consumeNextFuel(c *appliance.Campfire) {
	slot := -1
	if c.CurrentFuelDefID != "" {
		slot = item.FirstSlotWithDef(c, c.CurrentFuelDefID)
	}
	if slot < 0 {
		for i := 0; i < len(c.SlotDefIDs); i++ {
			if c.SlotInstanceIDs[i] != "" && isFuelItem(c.SlotDefIDs[i]) {
				slot = i
				break
			}
		}
	}
	if slot < 0 {
		return
	}

	burned := c.SlotDefIDs[slot]
	if c.SlotQuantities[slot] > 1 {
		c.SlotQuantities[slot]--
	} else {
		_, _, _ = item.DropFromSlot(c, slot)
	}
	c.CurrentFuelDefID = burned
	c.RemainingFuelBurnTimeSecs = rules.FuelBurnSecsPerUnit

	if burned == item.Wood && rand.Float32() < rules.WoodToCharcoalChance {
		s.yieldCharcoal(c)
	}
}

// yieldCharcoal places one Charcoal produced by a burned Wood unit:
// stack first, empty slot second, world drop last.
func (s *CampfireSystem) yieldCharcoal(c *appliance.Campfire) {
	if i := item.FirstSlotWithDef(c, item.Charcoal); i >= 0 {
		if c.SlotQuantities[i] < 1 {
			c.SlotQuantities[i] = 1
		}
		c.SlotQuantities[i]++
		return
	}
	if i := item.FirstEmptySlot(c); i >= 0 {
		c.SetSlot(i, events.GenerateEventID(), item.Charcoal)
		c.SlotQuantities[i] = 1
		return
	}
	s.eventLog.Append(events.GameEvent{
		ID: events.GenerateEventID(), Timestamp: time.Now(),
		Type: events.EventTypeItemDropped, ActorID: events.SystemActorID, TargetID: c.ID,
		Payload: events.ItemDroppedPayload{
			InstanceID: events.GenerateEventID(), DefID: string(item.Charcoal),
			X: c.X + rules.CampfireDropOffsetPx, Y: c.Y,
		},
	})
}

// applyDamageZone pulses the HotCombatLadle-style zone burn onto any
// living player within CampfireDamageRadiusPx, provided they don't
// already carry the matching SourceDefID burn (no restacking the same
// source).
func (s *CampfireSystem) applyDamageZone(c *appliance.Campfire, now int64) {
	for _, p := range s.engine.GetPlayers() {
		if !p.IsLiving() {
			continue
		}
		dx := p.X - c.X
		dy := p.Y - c.Y
		if dx*dx+dy*dy > rules.CampfireDamageRadiusPx*rules.CampfireDamageRadiusPx {
			continue
		}
		if s.engine.effectSystem.hasSourcedBurn(p.ID, c.ID) {
			continue
		}
		s.engine.effectSystem.ApplyEffect(newCampfireZoneBurn(p.ID, c.ID, now))
	}
}
