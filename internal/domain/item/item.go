// Package item defines the item catalogue and item stacks.
// This package is PURE and must NOT import any infrastructure packages.
package item

// DefID identifies an entry in the item catalogue.
type DefID string

const (
	Wood             DefID = "WOOD"
	Stone            DefID = "STONE"
	Charcoal         DefID = "CHARCOAL"
	Pinecone         DefID = "PINECONE"
	RawMeat          DefID = "RAW_MEAT"
	CookedMeat       DefID = "COOKED_MEAT"
	MetalOre         DefID = "METAL_ORE"
	Bandage          DefID = "BANDAGE"
	AntiVenom        DefID = "ANTI_VENOM"
	Valydol          DefID = "VALYDOL"
	ChewingGum       DefID = "CHEWING_GUM"
	ReedWaterBottle  DefID = "REED_WATER_BOTTLE"
	Tallow           DefID = "TALLOW"
	HotLadle         DefID = "HOT_LADLE"
	WoodenArrow      DefID = "WOODEN_ARROW"
	FireArrow        DefID = "FIRE_ARROW"
	VenomArrow       DefID = "VENOM_ARROW"
	VenomHarpoonDart DefID = "VENOM_HARPOON_DART"
	HollowReedArrow  DefID = "HOLLOW_REED_ARROW"
	Grenade          DefID = "GRENADE"
	Flare            DefID = "FLARE"
	Bullet9mm        DefID = "BULLET_9MM"
	Gloves           DefID = "GLOVES"
)

// Definition is a catalogue entry. RespawnTimeSeconds mirrors the
// specification's per-item "respawn_time_seconds", which drives corpse
// despawn sizing (death/corpse pipeline) — nil means the item has no
// respawn timer and does not influence despawn sizing.
type Definition struct {
	Name               string
	IsFood             bool
	Nutrition          float32
	Hydration          float32
	WarmthMod          float32
	RespawnTimeSeconds *int
	MaxStack           int
}

func intPtr(v int) *int { return &v }

// Registry is the catalogue of known item definitions. The full plant
// and loot-table data that would populate a production catalogue is
// external and out of scope; this table covers what the effect,
// appliance, and projectile engines specified here actually consume.
var Registry = map[DefID]Definition{
	Wood:             {Name: "Wood", MaxStack: 100, RespawnTimeSeconds: intPtr(600)},
	Stone:            {Name: "Stone", MaxStack: 100},
	Charcoal:         {Name: "Charcoal", MaxStack: 100},
	Pinecone:         {Name: "Pinecone", RespawnTimeSeconds: intPtr(900), MaxStack: 50},
	RawMeat:          {Name: "Raw Meat", IsFood: true, Nutrition: 10, MaxStack: 10, RespawnTimeSeconds: intPtr(600)},
	CookedMeat:       {Name: "Cooked Meat", IsFood: true, Nutrition: 30, MaxStack: 10},
	MetalOre:         {Name: "Metal Ore", MaxStack: 100},
	Bandage:          {Name: "Bandage", MaxStack: 10},
	AntiVenom:        {Name: "Anti-Venom", MaxStack: 5},
	Valydol:          {Name: "Valydol", MaxStack: 5},
	ChewingGum:       {Name: "Chewing Gum", MaxStack: 10},
	ReedWaterBottle:  {Name: "Reed Water Bottle", Hydration: 20, MaxStack: 1},
	Tallow:           {Name: "Tallow", MaxStack: 20},
	HotLadle:         {Name: "Hot Ladle", MaxStack: 1},
	WoodenArrow:      {Name: "Wooden Arrow", MaxStack: 50},
	FireArrow:        {Name: "Fire Arrow", MaxStack: 50},
	VenomArrow:       {Name: "Venom Arrow", MaxStack: 50},
	VenomHarpoonDart: {Name: "Venom Harpoon Dart", MaxStack: 50},
	HollowReedArrow:  {Name: "Hollow Reed Arrow", MaxStack: 50},
	Grenade:          {Name: "Grenade", MaxStack: 5},
	Flare:            {Name: "Flare", MaxStack: 5},
	Bullet9mm:        {Name: "9mm Bullet", MaxStack: 60},
	Gloves:           {Name: "Gloves", MaxStack: 1},
}

// Get looks up a catalogue entry.
func Get(id DefID) (Definition, bool) {
	d, ok := Registry[id]
	return d, ok
}

// Stack is a quantity of a single item definition.
type Stack struct {
	DefID    DefID
	Quantity int
}
