package engine

import (
	"testing"

	"github.com/emberreach/server/internal/domain/appliance"
	"github.com/emberreach/server/internal/domain/item"
	"github.com/emberreach/server/internal/domain/rules"
	"github.com/emberreach/server/internal/events"
)

// Burning fuel consumes one unit from the stack, not the whole slot.
func TestConsumeNextFuelDecrementsOneUnit(t *testing.T) {
	e := newTestEngine()
	c := &appliance.Campfire{ID: "camp-1"}
	c.SetSlot(0, "wood-stack", item.Wood)
	c.SlotQuantities[0] = 3
	e.RegisterCampfire(c)

	e.campfireSystem.consumeNextFuel(c)

	if c.SlotQuantities[0] != 2 {
		t.Errorf("Expected one unit burned, got quantity %d", c.SlotQuantities[0])
	}
	if c.SlotInstanceIDs[0] != "wood-stack" {
		t.Errorf("Expected the stack kept while units remain")
	}
	if c.CurrentFuelDefID != item.Wood {
		t.Errorf("Expected Wood recorded as the active fuel")
	}
	if c.RemainingFuelBurnTimeSecs != rules.FuelBurnSecsPerUnit {
		t.Errorf("Expected the burn clock reset, got %v", c.RemainingFuelBurnTimeSecs)
	}
}

// The last unit removes the depleted stack from its slot (burned Wood's
// charcoal may then take that slot), and the next burn reloads from any
// other slot holding the same fuel def.
func TestConsumeNextFuelReloadsFromOtherSlot(t *testing.T) {
	e := newTestEngine()
	c := &appliance.Campfire{ID: "camp-1", CurrentFuelDefID: item.Wood}
	c.SetSlot(0, "stack-a", item.Wood)
	c.SlotQuantities[0] = 1
	c.SetSlot(3, "stack-b", item.Wood)
	c.SlotQuantities[3] = 5
	e.RegisterCampfire(c)

	e.campfireSystem.consumeNextFuel(c)
	if c.SlotInstanceIDs[0] == "stack-a" {
		t.Fatalf("Expected the depleted stack cleared")
	}

	e.campfireSystem.consumeNextFuel(c)
	if c.SlotQuantities[3] != 4 {
		t.Errorf("Expected the burn to reload from the other Wood stack, got quantity %d", c.SlotQuantities[3])
	}
}

// Charcoal from burned Wood stacks into an existing Charcoal slot
// first, then an empty slot, and only then drops into the world.
func TestYieldCharcoalPlacement(t *testing.T) {
	e := newTestEngine()

	c := &appliance.Campfire{ID: "camp-1"}
	c.SetSlot(1, "coal-stack", item.Charcoal)
	c.SlotQuantities[1] = 2
	e.campfireSystem.yieldCharcoal(c)
	if c.SlotQuantities[1] != 3 {
		t.Errorf("Expected charcoal stacked onto the existing pile, got %d", c.SlotQuantities[1])
	}

	c2 := &appliance.Campfire{ID: "camp-2"}
	c2.SetSlot(0, "wood", item.Wood)
	e.campfireSystem.yieldCharcoal(c2)
	if c2.SlotDefIDs[1] != item.Charcoal || c2.SlotQuantities[1] != 1 {
		t.Errorf("Expected charcoal placed into the first empty slot")
	}
}

// A campfire with no recognized fuel cannot be lit.
func TestLightRequiresFuel(t *testing.T) {
	e := newTestEngine()
	c := &appliance.Campfire{ID: "camp-1"}
	c.SetSlot(0, "stone", item.Stone)
	e.RegisterCampfire(c)

	if err := e.LightCampfire("camp-1"); err != ErrCampfireNoFuel {
		t.Errorf("Expected ErrCampfireNoFuel, got %v", err)
	}
	if c.IsBurning {
		t.Errorf("Expected the campfire to stay unlit")
	}
}

// Metal Ore never cooks on a campfire.
func TestMetalOreDoesNotCookOnCampfire(t *testing.T) {
	e := newTestEngine()
	c := &appliance.Campfire{ID: "camp-1", IsBurning: true, RemainingFuelBurnTimeSecs: 30}
	c.SetSlot(0, "ore", item.MetalOre)
	c.SetSlot(1, "meat", item.RawMeat)
	e.RegisterCampfire(c)

	e.campfireSystem.OnTick(events.GameEvent{TargetID: "camp-1"})

	if c.SlotCookProgress[0] != 0 {
		t.Errorf("Expected no cook progress on Metal Ore, got %v", c.SlotCookProgress[0])
	}
	if c.SlotCookProgress[1] <= 0 {
		t.Errorf("Expected the meat slot to make progress")
	}
}
