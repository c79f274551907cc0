package corpse

import (
	"testing"

	"github.com/emberreach/server/internal/domain/item"
)

func TestEquipSlotIndexRoundTrip(t *testing.T) {
	for _, slotType := range []string{"Head", "Chest", "Legs", "Feet", "Hands", "Back"} {
		i := EquipSlotIndex(slotType)
		if i < EquipSlotStart || i >= EquipSlotStart+EquipSlotCount {
			t.Errorf("Expected %s to map into the equip range, got %d", slotType, i)
		}
		if back := EquipSlotTypeForIndex(i); back != slotType {
			t.Errorf("Expected index %d to map back to %s, got %s", i, slotType, back)
		}
	}
	if EquipSlotIndex("Tail") != -1 {
		t.Errorf("Expected unknown slot types to map to -1")
	}
	if EquipSlotTypeForIndex(0) != "" {
		t.Errorf("Expected inventory-range indices to map to no equip type")
	}
}

func TestSlotLayoutRanges(t *testing.T) {
	// Inventory 0-23, hotbar 24-29, equipment 30-35.
	if InventorySlotStart != 0 || InventorySlotCount != 24 {
		t.Errorf("Unexpected inventory range")
	}
	if HotbarSlotStart != 24 || HotbarSlotCount != 6 {
		t.Errorf("Unexpected hotbar range")
	}
	if EquipSlotStart != 30 || NumCorpseSlots != 36 {
		t.Errorf("Unexpected equip range or total slot count")
	}
}

func TestFirstEmptyInSequentialRange(t *testing.T) {
	c := &PlayerCorpse{}
	if got := c.FirstEmptyInSequentialRange(); got != 0 {
		t.Errorf("Expected slot 0 on an empty corpse, got %d", got)
	}

	c.SetSlot(0, "a", item.Wood)
	c.SetSlot(1, "b", item.Stone)
	if got := c.FirstEmptyInSequentialRange(); got != 2 {
		t.Errorf("Expected slot 2, got %d", got)
	}

	for i := 0; i < NumCorpseSlots; i++ {
		c.SetSlot(i, "x", item.Wood)
	}
	if got := c.FirstEmptyInSequentialRange(); got != -1 {
		t.Errorf("Expected -1 on a full corpse, got %d", got)
	}
}

func TestSlotAccessorsBoundsChecked(t *testing.T) {
	c := &PlayerCorpse{}
	c.SetSlot(-1, "x", item.Wood)
	c.SetSlot(NumCorpseSlots, "x", item.Wood)
	if c.SlotInstanceID(-1) != "" || c.SlotInstanceID(NumCorpseSlots) != "" {
		t.Errorf("Expected out-of-range accessors to read empty")
	}
	for i := 0; i < NumCorpseSlots; i++ {
		if c.SlotInstanceIDs[i] != "" {
			t.Errorf("Expected out-of-range writes to be dropped, slot %d populated", i)
		}
	}
}
