package recipe

import (
	"testing"

	"github.com/emberreach/server/internal/domain/item"
)

func TestMatchRequiresIngredientCount(t *testing.T) {
	if _, ok := Match([]item.DefID{item.RawMeat}); ok {
		t.Errorf("Expected one Raw Meat to match nothing (needs 2)")
	}

	r, ok := Match([]item.DefID{item.RawMeat, item.RawMeat})
	if !ok {
		t.Fatalf("Expected two Raw Meat to match Meat Broth")
	}
	if r.Output != item.CookedMeat {
		t.Errorf("Expected Cooked Meat output, got %q", r.Output)
	}
}

func TestMatchIgnoresFillerSlots(t *testing.T) {
	// Extra non-primary ingredients do not block a match.
	_, ok := Match([]item.DefID{item.Wood, item.RawMeat, item.RawMeat})
	if !ok {
		t.Errorf("Expected filler slots to be ignored")
	}
}

func TestMatchEmpty(t *testing.T) {
	if _, ok := Match(nil); ok {
		t.Errorf("Expected no match on an empty pot")
	}
}
