package item

import "testing"

// gridContainer is a minimal Container for exercising the generic slot
// helpers without dragging a concrete appliance in.
type gridContainer struct {
	instanceIDs [4]string
	defIDs      [4]DefID
}

func (g *gridContainer) NumSlots() int              { return len(g.instanceIDs) }
func (g *gridContainer) SlotInstanceID(i int) string { return g.instanceIDs[i] }
func (g *gridContainer) SlotDefID(i int) DefID       { return g.defIDs[i] }
func (g *gridContainer) ContainerType() ContainerType {
	return ContainerType("Test")
}
func (g *gridContainer) ContainerID() string { return "test-1" }
func (g *gridContainer) SetSlot(i int, instanceID string, defID DefID) {
	g.instanceIDs[i] = instanceID
	g.defIDs[i] = defID
}

func TestQuickMoveTo(t *testing.T) {
	g := &gridContainer{}
	g.SetSlot(0, "a", Wood)

	slot, err := QuickMoveTo(g, "b", Stone)
	if err != nil {
		t.Fatalf("Expected placement to succeed, got %v", err)
	}
	if slot != 1 {
		t.Errorf("Expected first empty slot 1, got %d", slot)
	}

	g.SetSlot(2, "c", Wood)
	g.SetSlot(3, "d", Wood)
	if _, err := QuickMoveTo(g, "e", Stone); err != ErrNoFreeSlot {
		t.Errorf("Expected ErrNoFreeSlot on a full container, got %v", err)
	}
}

func TestMoveToSlotReturnsPreviousOccupant(t *testing.T) {
	g := &gridContainer{}
	g.SetSlot(1, "old", Wood)

	prevID, prevDef, err := MoveToSlot(g, 1, "new", Stone)
	if err != nil {
		t.Fatalf("Expected move to succeed, got %v", err)
	}
	if prevID != "old" || prevDef != Wood {
		t.Errorf("Expected the previous occupant back, got (%q, %q)", prevID, prevDef)
	}
	if g.SlotInstanceID(1) != "new" {
		t.Errorf("Expected slot 1 to hold the new instance")
	}

	if _, _, err := MoveToSlot(g, 9, "x", Stone); err != ErrSlotOutOfRange {
		t.Errorf("Expected ErrSlotOutOfRange, got %v", err)
	}
}

func TestMoveWithinSwaps(t *testing.T) {
	g := &gridContainer{}
	g.SetSlot(0, "a", Wood)
	g.SetSlot(1, "b", Stone)

	if err := MoveWithin(g, 0, 1); err != nil {
		t.Fatalf("Expected swap to succeed, got %v", err)
	}
	if g.SlotInstanceID(0) != "b" || g.SlotInstanceID(1) != "a" {
		t.Errorf("Expected occupants swapped, got %q / %q", g.SlotInstanceID(0), g.SlotInstanceID(1))
	}
}

func TestDropFromSlot(t *testing.T) {
	g := &gridContainer{}
	g.SetSlot(2, "a", Charcoal)

	instanceID, defID, err := DropFromSlot(g, 2)
	if err != nil {
		t.Fatalf("Expected drop to succeed, got %v", err)
	}
	if instanceID != "a" || defID != Charcoal {
		t.Errorf("Expected the dropped occupant back, got (%q, %q)", instanceID, defID)
	}
	if g.SlotInstanceID(2) != "" {
		t.Errorf("Expected slot 2 cleared")
	}
}

func TestClearInstance(t *testing.T) {
	g := &gridContainer{}
	g.SetSlot(0, "stale", Wood)
	g.SetSlot(3, "keep", Stone)

	ClearInstance(g, "stale")

	if g.SlotInstanceID(0) != "" {
		t.Errorf("Expected the stale reference scrubbed")
	}
	if g.SlotInstanceID(3) != "keep" {
		t.Errorf("Expected unrelated slots untouched")
	}
}

func TestFirstSlotWithDef(t *testing.T) {
	g := &gridContainer{}
	g.SetSlot(1, "a", Wood)
	g.SetSlot(2, "b", Charcoal)

	if i := FirstSlotWithDef(g, Charcoal); i != 2 {
		t.Errorf("Expected Charcoal at slot 2, got %d", i)
	}
	if i := FirstSlotWithDef(g, Pinecone); i != -1 {
		t.Errorf("Expected -1 for an absent def, got %d", i)
	}
}
