package engine

import (
	"testing"

	"github.com/emberreach/server/internal/domain/appliance"
	"github.com/emberreach/server/internal/domain/item"
	"github.com/emberreach/server/internal/domain/weather"
	"github.com/emberreach/server/internal/domain/world"
	"github.com/emberreach/server/internal/events"
)

// Rain falling into a pot holding under 500ml of seawater turns the
// whole pot fresh.
func TestRainDilutesLowSeawater(t *testing.T) {
	e, wp := newTestEngineWithWeather()
	wp.Set(7, weather.Rain)

	p := &appliance.BrothPot{ID: "pot-1", ChunkID: 7, WaterLevelMl: 300, IsSeawater: true}
	e.RegisterBrothPot(p)

	e.brothPotSystem.collectRain(p, 1.0)

	if p.IsSeawater {
		t.Errorf("Expected under-500ml seawater diluted fresh by rain")
	}
	if p.WaterLevelMl != 301 {
		t.Errorf("Expected 1ml collected at the Rain rate, got %d", p.WaterLevelMl)
	}
}

// A pot inside a building collects nothing, whatever the weather.
func TestNoRainCollectionInsideBuilding(t *testing.T) {
	e, wp := newTestEngineWithWeather()
	wp.Set(0, weather.HeavyStorm)
	e.RegisterShelter(&world.Shelter{ID: "s1", MinX: 0, MinY: 0, MaxX: 200, MaxY: 200})

	p := &appliance.BrothPot{ID: "pot-1", X: 100, Y: 100, ChunkID: 0}
	e.RegisterBrothPot(p)

	e.brothPotSystem.collectRain(p, 1.0)

	if p.WaterLevelMl != 0 {
		t.Errorf("Expected a sheltered pot to stay empty, got %d ml", p.WaterLevelMl)
	}
}

func attachedBurningPot(e *Engine) *appliance.BrothPot {
	c := &appliance.Campfire{ID: "camp-1", IsBurning: true}
	e.RegisterCampfire(c)
	p := &appliance.BrothPot{ID: "pot-1", AttachedCampfireID: "camp-1", WaterLevelMl: 3000}
	c.AttachedBrothPotID = p.ID
	e.RegisterBrothPot(p)
	return p
}

// Changing the ingredients under a brew in progress restarts it from
// zero with the newly matched recipe.
func TestBrewRestartsWhenRecipeChanges(t *testing.T) {
	e := newTestEngine()
	p := attachedBurningPot(e)
	p.SetSlot(0, "m1", item.RawMeat)
	p.SetSlot(1, "m2", item.RawMeat)
	p.IsCooking = true
	p.CookingRecipeName = "Old Stew"
	p.CookingProgressSecs = 30

	e.brothPotSystem.brew(p, 1.0)

	if !p.IsCooking {
		t.Fatalf("Expected the pot to keep cooking the new recipe")
	}
	if p.CookingRecipeName != "Meat Broth" {
		t.Errorf("Expected the matched recipe, got %q", p.CookingRecipeName)
	}
	if p.CookingProgressSecs != 1 {
		t.Errorf("Expected progress restarted from zero, got %v", p.CookingProgressSecs)
	}
}

// An occupied output slot blocks brewing entirely.
func TestBrewBlockedByOccupiedOutput(t *testing.T) {
	e := newTestEngine()
	p := attachedBurningPot(e)
	p.SetSlot(0, "m1", item.RawMeat)
	p.SetSlot(1, "m2", item.RawMeat)
	p.OutputInstanceID = "prev"
	p.OutputDefID = item.CookedMeat

	e.brothPotSystem.brew(p, 1.0)

	if p.IsCooking {
		t.Errorf("Expected no brewing while the output slot is full")
	}
}

// Completion consumes the recipe's ingredient count in slot order, a
// liter of water, and fills the output slot.
func TestBrewCompletionConsumesIngredientsInOrder(t *testing.T) {
	e := newTestEngine()
	p := attachedBurningPot(e)
	p.SetSlot(0, "m1", item.RawMeat)
	p.SetSlot(1, "m2", item.RawMeat)
	p.SetSlot(2, "m3", item.RawMeat)
	p.IsCooking = true
	p.CookingRecipeName = "Meat Broth"
	p.CookingProgressSecs = 59.5

	e.brothPotSystem.brew(p, 1.0)

	if p.OutputDefID != item.CookedMeat {
		t.Fatalf("Expected the recipe output, got %q", p.OutputDefID)
	}
	if p.IngredientSlotInstanceIDs[0] != "" || p.IngredientSlotInstanceIDs[1] != "" {
		t.Errorf("Expected the first two ingredient slots consumed")
	}
	if p.IngredientSlotInstanceIDs[2] != "m3" {
		t.Errorf("Expected the third ingredient kept")
	}
	if p.WaterLevelMl != 2000 {
		t.Errorf("Expected a liter of water consumed, got %d ml", p.WaterLevelMl)
	}
	if p.IsCooking {
		t.Errorf("Expected cooking state cleared after completion")
	}
}

// Pickup is rejected while the pot holds ingredients or output, and
// drops a slotted water container once it is allowed.
func TestBrothPotPickupRules(t *testing.T) {
	e := newTestEngine()
	c := &appliance.Campfire{ID: "camp-1"}
	e.RegisterCampfire(c)
	p := &appliance.BrothPot{
		ID: "pot-1", AttachedCampfireID: "camp-1", WaterLevelMl: 500,
		WaterContainerInstanceID: "bottle-1", WaterContainerDefID: item.ReedWaterBottle,
	}
	c.AttachedBrothPotID = p.ID
	e.RegisterBrothPot(p)
	p.SetSlot(0, "m1", item.RawMeat)

	if err := e.PickupBrothPot("pot-1"); err == nil {
		t.Fatalf("Expected pickup rejected while ingredients remain")
	}

	p.SetSlot(0, "", "")
	if err := e.PickupBrothPot("pot-1"); err != nil {
		t.Fatalf("Expected pickup to succeed once empty, got %v", err)
	}
	if _, stillThere := e.brothPots["pot-1"]; stillThere {
		t.Errorf("Expected the pot removed")
	}
	if c.AttachedBrothPotID != "" {
		t.Errorf("Expected the campfire detached")
	}
	dropped := e.GetEventLog().GetByType(events.EventTypeItemDropped)
	found := false
	for _, ev := range dropped {
		if payload, ok := ev.Payload.(events.ItemDroppedPayload); ok && payload.InstanceID == "bottle-1" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected the slotted water container dropped on pickup")
	}
}
