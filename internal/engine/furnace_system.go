package engine

import (
	"time"

	"github.com/emberreach/server/internal/domain/appliance"
	"github.com/emberreach/server/internal/domain/item"
	"github.com/emberreach/server/internal/domain/rules"
	"github.com/emberreach/server/internal/events"
	"github.com/emberreach/server/internal/platform/logger"
)

// furnaceFuelItems mirrors the campfire's fuel set; furnaces burn the
// same fuel items to smelt Metal Ore, which campfires refuse entirely.
var furnaceFuelItems = map[item.DefID]bool{
	item.Wood: true, item.Charcoal: true,
}

// FurnaceSystem owns the furnace's 1-second tick: fuel burn and
// Metal Ore smelting progress, the one cook job a campfire cannot do.
type FurnaceSystem struct {
	engine   *Engine
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewFurnaceSystem builds a furnace system.
func NewFurnaceSystem(e *Engine, eventLog *events.EventLog, log *logger.Logger) *FurnaceSystem {
	return &FurnaceSystem{engine: e, eventLog: eventLog, logger: log}
}

// Light ignites a furnace, same fuel-presence precondition as a
// campfire but with no weather gate (furnaces are assumed sheltered).
func (s *FurnaceSystem) Light(furnaceID string) bool {
	f, ok := s.engine.furnaces[furnaceID]
	if !ok || f.IsDestroyed || f.IsBurning {
		return false
	}
	if !f.HasFuel() {
		return false
	}
	f.IsBurning = true
	s.reschedule(f)
	return true
}

// reschedule installs or removes the furnace's tick job depending on
// whether it is currently burning.
func (s *FurnaceSystem) reschedule(f *appliance.Furnace) {
	if f.IsBurning && !f.IsDestroyed {
		s.engine.scheduler.Upsert(JobFurnaceTick, f.ID,
			time.Now().UnixMicro()+int64(time.Second/time.Microsecond), int64(time.Second/time.Microsecond))
	} else {
		s.engine.scheduler.Delete(JobFurnaceTick, f.ID)
	}
}

// Tick advances one furnace by one second.
func (s *FurnaceSystem) Tick(furnaceID string, now int64) {
	f, ok := s.engine.furnaces[furnaceID]
	if !ok || !f.IsBurning {
		return
	}
	dt := float32(1.0)

	for i := 0; i < f.NumCookSlots(); i++ {
		if f.SlotDefIDs[i] != item.MetalOre {
			continue
		}
		f.SlotCookProgress[i] += dt
	}

	f.RemainingFuelBurnTimeSecs -= dt
	if f.RemainingFuelBurnTimeSecs <= 0 {
		s.consumeNextFuel(f)
	}
	if f.RemainingFuelBurnTimeSecs <= 0 && !f.HasFuel() {
		f.IsBurning = false
	}

	s.reschedule(f)
}

func (s *FurnaceSystem) consumeNextFuel(f *appliance.Furnace) {
	for i := 0; i < len(f.SlotDefIDs); i++ {
		if f.SlotInstanceIDs[i] == "" || !furnaceFuelItems[f.SlotDefIDs[i]] {
			continue
		}
		f.CurrentFuelDefID = f.SlotDefIDs[i]
		_, _, _ = item.DropFromSlot(f, i)
		f.RemainingFuelBurnTimeSecs = rules.FuelBurnSecsPerUnit
		return
	}
}
