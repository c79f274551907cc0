package item

import "errors"

// ErrSlotOutOfRange is returned by any slot accessor given an invalid index.
var ErrSlotOutOfRange = errors.New("item: slot index out of range")

// ErrNoFreeSlot is returned when no container slot is available.
var ErrNoFreeSlot = errors.New("item: no free slot")

// Container is the capability implemented by every multi-slot entity:
// campfires, broth-pots, furnaces, and corpses. The
// generic slot-mutation helpers below are implemented once against this
// interface instead of once per concrete appliance.
type Container interface {
	NumSlots() int
	SlotInstanceID(i int) string
	SlotDefID(i int) DefID
	SetSlot(i int, instanceID string, defID DefID)
	ContainerType() ContainerType
	ContainerID() string
}

// FirstEmptySlot returns the index of the first slot with no instance,
// or -1 if the container is full.
func FirstEmptySlot(c Container) int {
	for i := 0; i < c.NumSlots(); i++ {
		if c.SlotInstanceID(i) == "" {
			return i
		}
	}
	return -1
}

// FirstSlotWithDef returns the index of the first slot holding defID,
// or -1 if none.
func FirstSlotWithDef(c Container, defID DefID) int {
	for i := 0; i < c.NumSlots(); i++ {
		if c.SlotDefID(i) == defID && c.SlotInstanceID(i) != "" {
			return i
		}
	}
	return -1
}

// MoveToSlot places (instanceID, defID) into slot i of c, returning the
// previous occupant (possibly empty) so the caller can decide where it
// goes (swap, drop, merge).
func MoveToSlot(c Container, i int, instanceID string, defID DefID) (prevInstanceID string, prevDefID DefID, err error) {
	if i < 0 || i >= c.NumSlots() {
		return "", "", ErrSlotOutOfRange
	}
	prevInstanceID = c.SlotInstanceID(i)
	prevDefID = c.SlotDefID(i)
	c.SetSlot(i, instanceID, defID)
	return prevInstanceID, prevDefID, nil
}

// QuickMoveTo places (instanceID, defID) into the first empty slot of c.
func QuickMoveTo(c Container, instanceID string, defID DefID) (slot int, err error) {
	slot = FirstEmptySlot(c)
	if slot < 0 {
		return -1, ErrNoFreeSlot
	}
	c.SetSlot(slot, instanceID, defID)
	return slot, nil
}

// MoveWithin swaps the occupants of two slots in the same container.
func MoveWithin(c Container, from, to int) error {
	if from < 0 || from >= c.NumSlots() || to < 0 || to >= c.NumSlots() {
		return ErrSlotOutOfRange
	}
	fi, fd := c.SlotInstanceID(from), c.SlotDefID(from)
	ti, td := c.SlotInstanceID(to), c.SlotDefID(to)
	c.SetSlot(to, fi, fd)
	c.SetSlot(from, ti, td)
	return nil
}

// DropFromSlot clears a slot, returning what was there so the caller can
// spawn a world-dropped item.
func DropFromSlot(c Container, i int) (instanceID string, defID DefID, err error) {
	if i < 0 || i >= c.NumSlots() {
		return "", "", ErrSlotOutOfRange
	}
	instanceID = c.SlotInstanceID(i)
	defID = c.SlotDefID(i)
	c.SetSlot(i, "", "")
	return instanceID, defID, nil
}

// ClearInstance scrubs a specific instance id from any slot of c that
// holds it — the "ContainerItemClearer" capability from the design
// notes, invoked whenever an item is deleted or force-moved out from
// under a container that still thinks it holds it.
func ClearInstance(c Container, instanceID string) {
	for i := 0; i < c.NumSlots(); i++ {
		if c.SlotInstanceID(i) == instanceID {
			c.SetSlot(i, "", "")
		}
	}
}
