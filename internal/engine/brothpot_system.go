package engine

import (
	"errors"
	"time"

	"github.com/emberreach/server/internal/domain/appliance"
	"github.com/emberreach/server/internal/domain/item"
	"github.com/emberreach/server/internal/domain/recipe"
	"github.com/emberreach/server/internal/domain/rules"
	"github.com/emberreach/server/internal/domain/weather"
	"github.com/emberreach/server/internal/events"
	"github.com/emberreach/server/internal/platform/logger"
	"github.com/emberreach/server/internal/platform/metrics"
)

// ErrBrothPotNotFound and ErrBrothPotOccupied are the broth-pot
// interaction gate's rejection reasons.
var (
	ErrBrothPotNotFound = errors.New("broth pot not found")
	ErrBrothPotOccupied = errors.New("broth pot is occupied by another player")
)

// BrothPotSystem owns the broth-pot's 1-second tick: passive rain
// collection, seawater desalination, and recipe-driven brewing while
// snap-attached to a burning campfire.
type BrothPotSystem struct {
	engine   *Engine
	eventLog *events.EventLog
	logger   *logger.Logger
	weather  weather.Provider
}

// NewBrothPotSystem builds a broth-pot system.
func NewBrothPotSystem(e *Engine, eventLog *events.EventLog, log *logger.Logger, w weather.Provider) *BrothPotSystem {
	return &BrothPotSystem{engine: e, eventLog: eventLog, logger: log, weather: w}
}

// Attach snap-attaches a broth-pot to a campfire, making the campfire's
// fuel slots 1-4 read-only from outside.
func (s *BrothPotSystem) Attach(potID, campfireID string) bool {
	pot, ok := s.engine.brothPots[potID]
	if !ok {
		return false
	}
	c, ok := s.engine.campfires[campfireID]
	if !ok || c.AttachedBrothPotID != "" {
		return false
	}
	pot.AttachedCampfireID = campfireID
	c.AttachedBrothPotID = potID
	s.reschedule(pot)
	return true
}

// Open grants playerID interaction access to a broth-pot, with the same
// safe-zone single-active-user exclusivity as CampfireSystem.Open.
func (s *BrothPotSystem) Open(potID, playerID string, now int64) error {
	p, ok := s.engine.brothPots[potID]
	if !ok {
		return ErrBrothPotNotFound
	}
	if s.engine.IsInSafeZone(p.X, p.Y) && p.ActiveUserID != "" && p.ActiveUserID != playerID {
		return ErrBrothPotOccupied
	}
	p.ActiveUserID = playerID
	p.ActiveUserSince = now
	return nil
}

// Close releases playerID's interaction access, if they currently hold
// it.
func (s *BrothPotSystem) Close(potID, playerID string) {
	p, ok := s.engine.brothPots[potID]
	if !ok || p.ActiveUserID != playerID {
		return
	}
	p.ActiveUserID = ""
	p.ActiveUserSince = 0
}

// Pickup detaches and removes a broth-pot. Requires empty ingredient
// and output slots; remaining water spills, and a water container still
// sitting in the dedicated slot is dropped just south of the campfire
// with its contents preserved.
func (s *BrothPotSystem) Pickup(potID string) error {
	p, ok := s.engine.brothPots[potID]
	if !ok {
		return ErrBrothPotNotFound
	}
	if !p.IsEmpty() {
		return errors.New("broth pot must be emptied before pickup")
	}
	if p.WaterContainerInstanceID != "" {
		s.eventLog.Append(events.GameEvent{
			ID: events.GenerateEventID(), Timestamp: time.Now(),
			Type: events.EventTypeItemDropped, ActorID: events.SystemActorID, TargetID: p.ID,
			Payload: events.ItemDroppedPayload{
				InstanceID: p.WaterContainerInstanceID, DefID: string(p.WaterContainerDefID),
				X: p.X, Y: p.Y + rules.CampfireDropOffsetPx,
			},
		})
		p.WaterContainerInstanceID = ""
		p.WaterContainerDefID = ""
	}
	if c, attached := s.engine.campfires[p.AttachedCampfireID]; attached {
		c.AttachedBrothPotID = ""
	}
	s.engine.scheduler.Delete(JobBrothPotTick, potID)
	delete(s.engine.brothPots, potID)
	return nil
}

// releaseStaleAccess clears ActiveUserID once its holder has
// disconnected, died, or drifted beyond AccessReleaseRangeMultiplier
// times the normal interaction range.
func (s *BrothPotSystem) releaseStaleAccess(p *appliance.BrothPot) {
	if p.ActiveUserID == "" {
		return
	}
	player := s.engine.GetPlayer(p.ActiveUserID)
	if player == nil || !player.IsLiving() || !player.IsOnline {
		p.ActiveUserID = ""
		p.ActiveUserSince = 0
		return
	}
	dx, dy := player.X-p.X, player.Y-p.Y
	releaseDistSq := rules.AccessReleaseRangeMultiplier * rules.AccessReleaseRangeMultiplier * rules.PlayerBrothPotInteractionDistanceSquared
	if dx*dx+dy*dy > releaseDistSq {
		p.ActiveUserID = ""
		p.ActiveUserSince = 0
	}
}

// reschedule installs or refreshes the pot's tick job. A pot needs work
// whenever it can still collect rain, is mid-desalination, or is
// attached to a burning campfire.
func (s *BrothPotSystem) reschedule(p *appliance.BrothPot) {
	// Rain collection runs as long as a pot exists, so a placed pot
	// always keeps its tick job — unlike the campfire, there is no
	// "idle" state to drop the schedule for.
	s.engine.scheduler.Upsert(JobBrothPotTick, p.ID,
		time.Now().UnixMicro()+int64(time.Second/time.Microsecond), int64(time.Second/time.Microsecond))
}

// OnTick advances one broth-pot by one second.
func (s *BrothPotSystem) OnTick(ev events.GameEvent) {
	p, ok := s.engine.brothPots[ev.TargetID]
	if !ok {
		return
	}
	dt := float32(1.0)

	s.collectRain(p, dt)
	s.desalinate(p, dt)
	s.brew(p, dt)
	s.releaseStaleAccess(p)

	s.reschedule(p)
}

// collectRain accumulates fractional ml from the current weather class,
// carrying sub-1ml remainders in RainCarryMl so the non-integer 2.5
// ml/s class never loses water to truncation. A pot inside a building
// collects nothing. Freshwater dilution: rain landing in a pot holding
// under FreshwaterDilutionThresholdMl of seawater turns it fresh.
func (s *BrothPotSystem) collectRain(p *appliance.BrothPot, dt float32) {
	w := s.weather.CurrentWeather(p.ChunkID)
	rate := rules.RainWaterMLPerSecF(w.Class())
	if rate <= 0 || s.engine.IsInsideBuilding(p.X, p.Y) {
		return
	}
	if p.IsSeawater && p.WaterLevelMl < rules.FreshwaterDilutionThresholdMl {
		p.IsSeawater = false
	}
	p.RainCarryMl += rate * dt
	whole := int(p.RainCarryMl)
	if whole > 0 {
		p.WaterLevelMl += whole
		p.RainCarryMl -= float32(whole)
	}
}

// desalinate converts seawater into fresh water at a fixed rate while
// the pot holds seawater and its attached campfire is burning,
// transferring the converted amount into a water-bearing container
// sitting in the pot's dedicated slot, if any. Mixing rule: a container
// already holding seawater stays seawater unless this tick's transfer
// exceeds its existing salt content, in which case it becomes fresh; a
// container with no capacity left, or no container at all, just lets
// the converted water evaporate.
func (s *BrothPotSystem) desalinate(p *appliance.BrothPot, dt float32) {
	c, attached := s.engine.campfires[p.AttachedCampfireID]
	if !p.IsSeawater || p.WaterLevelMl <= 0 || !attached || !c.IsBurning {
		p.IsDesalinating = false
		return
	}
	p.IsDesalinating = true

	converted := int(float32(rules.DesalinationRateMLPerSec) * dt)
	if converted > p.WaterLevelMl {
		converted = p.WaterLevelMl
	}
	p.WaterLevelMl -= converted

	if p.WaterContainerInstanceID != "" {
		capacityLeft := p.WaterContainerCapacityMl - p.WaterContainerWaterMl
		if capacityLeft > 0 {
			add := converted
			if add > capacityLeft {
				add = capacityLeft
			}
			if !p.WaterContainerIsSeawater || add > p.WaterContainerWaterMl {
				p.WaterContainerIsSeawater = false
			}
			p.WaterContainerWaterMl += add
		}
	}

	if p.WaterLevelMl <= 0 {
		p.IsSeawater = false
		p.IsDesalinating = false
	}
}

// brew advances cooking progress while a campfire is attached and
// burning, matching ingredients against the recipe book and producing
// output once progress reaches the recipe's required duration.
func (s *BrothPotSystem) brew(p *appliance.BrothPot, dt float32) {
	c, attached := s.engine.campfires[p.AttachedCampfireID]
	if !attached || !c.IsBurning {
		p.IsCooking = false
		return
	}

	defIDs := make([]item.DefID, 0, appliance.BrothPotNumIngredientSlots)
	for i := 0; i < appliance.BrothPotNumIngredientSlots; i++ {
		if p.IngredientSlotInstanceIDs[i] != "" {
			defIDs = append(defIDs, p.IngredientSlotDefIDs[i])
		}
	}
	r, matched := recipe.Match(defIDs)
	if !matched || p.WaterLevelMl < r.RequiredWaterMl || p.OutputDefID != "" {
		p.IsCooking = false
		return
	}
	if p.IsCooking && p.CookingRecipeName != r.Name {
		// The ingredients changed under a brew in progress: restart
		// from zero with the newly matched recipe.
		p.CookingProgressSecs = 0
	}

	p.IsCooking = true
	p.CookingRecipeName = r.Name
	p.CookingRequiredSecs = r.RequiredSecs
	p.CookingProgressSecs += dt * rules.CookingSpeedMultiplier(c.HasReedBellows, c.InGreenRuneZone)

	if p.CookingProgressSecs >= r.RequiredSecs {
		p.WaterLevelMl -= r.RequiredWaterMl
		consumed := 0
		for i := 0; i < appliance.BrothPotNumIngredientSlots && consumed < r.Tier.MinIngredientCount; i++ {
			if p.IngredientSlotDefIDs[i] == r.PrimaryIngredient && p.IngredientSlotInstanceIDs[i] != "" {
				p.SetSlot(i, "", "")
				consumed++
			}
		}
		p.OutputInstanceID = events.GenerateEventID()
		p.OutputDefID = r.Output
		p.IsCooking = false
		p.CookingProgressSecs = 0
		p.CookingRecipeName = ""
		if p.WaterLevelMl <= 0 {
			p.IsSeawater = false
		}
		metrics.Get().RecordBrothPotRecipe()
		s.eventLog.Append(events.GameEvent{
			ID: events.GenerateEventID(), Timestamp: time.Now(),
			Type: events.EventTypeRecipeCompleted, ActorID: events.SystemActorID, TargetID: p.ID,
			Payload: events.RecipeCompletedPayload{PotID: p.ID, RecipeName: r.Name, OutputDef: string(r.Output)},
		})
	}
}
