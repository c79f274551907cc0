// Package recipe specifies the broth-pot's ingredient-matching contract.
// The plant/loot catalogue data that would populate a production recipe
// book is external and out of scope; this package specifies the
// consumption contract ("match ingredients to a recipe") with a small
// built-in table standing in for that external data.
// This package is PURE and must NOT import any infrastructure packages.
package recipe

import "github.com/emberreach/server/internal/domain/item"

// Tier groups recipes that share an ingredient-count requirement.
type Tier struct {
	MinIngredientCount int
}

// Recipe describes a broth-pot output and its matching ingredients.
type Recipe struct {
	Name                    string
	PrimaryIngredient       item.DefID
	RequiredIngredientCount int
	RequiredWaterMl         int
	RequiredSecs            float32
	Output                  item.DefID
	Tier                    Tier
}

// Catalogue is the minimal built-in recipe book.
var Catalogue = []Recipe{
	{
		Name: "Meat Broth", PrimaryIngredient: item.RawMeat,
		RequiredIngredientCount: 2, RequiredWaterMl: 1000, RequiredSecs: 60,
		Output: item.CookedMeat, Tier: Tier{MinIngredientCount: 2},
	},
}

// Match finds the first recipe whose primary ingredient appears at
// least RequiredIngredientCount times across the given ingredient
// slots. Returns (nil, false) when nothing matches — the caller treats
// that as "no recipe currently matched."
func Match(ingredientDefIDs []item.DefID) (*Recipe, bool) {
	for i := range Catalogue {
		r := &Catalogue[i]
		count := 0
		for _, d := range ingredientDefIDs {
			if d == r.PrimaryIngredient {
				count++
			}
		}
		if count >= r.RequiredIngredientCount {
			return r, true
		}
	}
	return nil, false
}
