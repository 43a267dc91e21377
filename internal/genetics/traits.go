package genetics

import "forkmonkey/internal/model"

// Trait category names.
const (
	BodyColor      = "body_color"
	FaceExpression = "face_expression"
	Accessory      = "accessory"
	Pattern        = "pattern"
	Background     = "background"
	Special        = "special"
)

// None is the option name of an unfilled optional slot.
const None = model.NoneTrait

// DefaultCatalog is the trait table every stored DNA record refers to.
// Category names, option names, weights and tiers are persisted data; do not
// rename or retune them.
var DefaultCatalog = MustCatalog([]Category{
	{
		Name: BodyColor,
		Options: []Option{
			{Name: "brown", Rarity: model.Common, Weight: 30},
			{Name: "tan", Rarity: model.Common, Weight: 25},
			{Name: "gray", Rarity: model.Common, Weight: 20},
			{Name: "golden", Rarity: model.Uncommon, Weight: 10},
			{Name: "silver", Rarity: model.Uncommon, Weight: 8},
			{Name: "purple", Rarity: model.Rare, Weight: 4},
			{Name: "neon_green", Rarity: model.Rare, Weight: 2},
			{Name: "rainbow", Rarity: model.Legendary, Weight: 1},
		},
	},
	{
		Name: FaceExpression,
		Options: []Option{
			{Name: "happy", Rarity: model.Common, Weight: 30},
			{Name: "curious", Rarity: model.Common, Weight: 25},
			{Name: "sleepy", Rarity: model.Common, Weight: 20},
			{Name: "mischievous", Rarity: model.Uncommon, Weight: 12},
			{Name: "surprised", Rarity: model.Uncommon, Weight: 8},
			{Name: "wise", Rarity: model.Rare, Weight: 4},
			{Name: "enlightened", Rarity: model.Legendary, Weight: 1},
		},
	},
	{
		Name: Accessory,
		Options: []Option{
			{Name: None, Rarity: model.Common, Weight: 40},
			{Name: "hat", Rarity: model.Common, Weight: 15},
			{Name: "bowtie", Rarity: model.Common, Weight: 12},
			{Name: "sunglasses", Rarity: model.Uncommon, Weight: 10},
			{Name: "headphones", Rarity: model.Uncommon, Weight: 8},
			{Name: "monocle", Rarity: model.Rare, Weight: 4},
			{Name: "crown", Rarity: model.Rare, Weight: 3},
			{Name: "halo", Rarity: model.Legendary, Weight: 1},
		},
	},
	{
		Name: Pattern,
		Options: []Option{
			{Name: None, Rarity: model.Common, Weight: 45},
			{Name: "spots", Rarity: model.Common, Weight: 20},
			{Name: "stripes", Rarity: model.Uncommon, Weight: 15},
			{Name: "hearts", Rarity: model.Uncommon, Weight: 10},
			{Name: "stars", Rarity: model.Rare, Weight: 5},
			{Name: "galaxy", Rarity: model.Legendary, Weight: 1},
		},
	},
	{
		Name: Background,
		Options: []Option{
			{Name: "jungle", Rarity: model.Common, Weight: 30},
			{Name: "beach", Rarity: model.Common, Weight: 25},
			{Name: "mountains", Rarity: model.Common, Weight: 20},
			{Name: "city", Rarity: model.Uncommon, Weight: 12},
			{Name: "underwater", Rarity: model.Uncommon, Weight: 8},
			{Name: "space", Rarity: model.Rare, Weight: 4},
			{Name: "dimension_rift", Rarity: model.Legendary, Weight: 1},
		},
	},
	{
		// special is generation-gated: ancestral traits only appear in
		// bred lineages.
		Name: Special,
		Options: []Option{
			{Name: None, Rarity: model.Common, Weight: 70},
			{Name: "sparkles", Rarity: model.Uncommon, Weight: 12},
			{Name: "glowing_eyes", Rarity: model.Rare, Weight: 6},
			{Name: "fire_aura", Rarity: model.Rare, Weight: 4, MinGeneration: 2},
			{Name: "genesis_blessing", Rarity: model.Legendary, Weight: 1},
			{Name: "ancestral_spirit", Rarity: model.Legendary, Weight: 1, MinGeneration: 5},
		},
	},
})
