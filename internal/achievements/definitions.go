package achievements

import (
	"fmt"

	"forkmonkey/internal/genetics"
	"forkmonkey/internal/model"
)

// Predicate reports whether an achievement is satisfied. Predicates must not
// modify their arguments.
type Predicate func(stats model.Stats, dna model.DNARecord) bool

// Definition is one entry of the achievement catalog.
type Definition struct {
	Key         string
	Icon        string
	Title       string
	Description string
	Category    string
	Condition   Predicate
}

func (d Definition) project() model.Unlocked {
	return model.Unlocked{
		Key:         d.Key,
		Icon:        d.Icon,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
	}
}

// Achievement categories.
const (
	CategoryMilestone   = "milestone"
	CategoryStreak      = "streak"
	CategoryRarity      = "rarity"
	CategoryMutation    = "mutation"
	CategorySocial      = "social"
	CategoryLeaderboard = "leaderboard"
	CategoryTraits      = "traits"
	CategoryGeneration  = "generation"
)

// Op compares a stat value against a rule threshold.
type Op string

const (
	AtLeast Op = ">="
	AtMost  Op = "<="
	Equal   Op = "=="
)

// Rule is a declarative threshold check on one numeric stat field.
type Rule struct {
	Field     string
	Op        Op
	Threshold float64
}

func (r Rule) Eval(stats model.Stats) (bool, error) {
	value, ok := stats.Numeric(r.Field)
	if !ok {
		return false, fmt.Errorf("unknown stat field %q", r.Field)
	}
	switch r.Op {
	case AtLeast:
		return value >= r.Threshold, nil
	case AtMost:
		return value <= r.Threshold, nil
	case Equal:
		return value == r.Threshold, nil
	default:
		return false, fmt.Errorf("unknown operator %q", r.Op)
	}
}

// Predicate adapts the rule. An invalid rule panics at evaluation time and is
// isolated by the evaluator like any other failing predicate.
func (r Rule) Predicate() Predicate {
	return func(stats model.Stats, _ model.DNARecord) bool {
		ok, err := r.Eval(stats)
		if err != nil {
			panic(err)
		}
		return ok
	}
}

func threshold(field string, op Op, value float64) Predicate {
	return Rule{Field: field, Op: op, Threshold: value}.Predicate()
}

// RarityMatch selects how rarity achievements compare tiers.
type RarityMatch int

const (
	// MatchExact requires the trait tier to equal the target tier.
	MatchExact RarityMatch = iota
	// MatchAtLeast accepts any tier at or above the target tier.
	MatchAtLeast
)

func ParseRarityMatch(s string) (RarityMatch, error) {
	switch s {
	case "", "exact":
		return MatchExact, nil
	case "at_least", "at-least":
		return MatchAtLeast, nil
	default:
		return MatchExact, fmt.Errorf("unknown rarity match: %q", s)
	}
}

func (m RarityMatch) String() string {
	if m == MatchAtLeast {
		return "at_least"
	}
	return "exact"
}

// HasRarity scans every dna entry, resolves its tier through catalog and
// reports whether any entry matches target. Entries the catalog does not know
// never match.
func HasRarity(catalog *genetics.Catalog, target model.Rarity, match RarityMatch) Predicate {
	return func(_ model.Stats, dna model.DNARecord) bool {
		for category, value := range dna {
			if category == model.GenerationKey {
				continue
			}
			tier, ok := catalog.RarityOf(category, value)
			if !ok {
				continue
			}
			if tier == target || (match == MatchAtLeast && tier > target) {
				return true
			}
		}
		return false
	}
}

// HasTrait reports whether an optional slot is filled.
func HasTrait(category string) Predicate {
	return func(_ model.Stats, dna model.DNARecord) bool {
		return dna.Get(category) != model.NoneTrait
	}
}

func hasCreatedAt(stats model.Stats, _ model.DNARecord) bool {
	return stats.HasCreatedAt()
}

// DefaultDefinitions returns the achievement catalog in display order. Keys,
// titles and thresholds are referenced by stored records.
func DefaultDefinitions(traits *genetics.Catalog, match RarityMatch) []Definition {
	if traits == nil {
		traits = genetics.DefaultCatalog
	}
	return []Definition{
		{Key: "first_hatch", Icon: "🥚", Title: "First Hatch", Description: "Adopted your first monkey", Category: CategoryMilestone,
			Condition: hasCreatedAt},

		{Key: "week_streak", Icon: "🔥", Title: "Week Warrior", Description: "7-day evolution streak", Category: CategoryStreak,
			Condition: threshold(model.FieldAgeDays, AtLeast, 7)},
		{Key: "month_keeper", Icon: "💎", Title: "Diamond Hands", Description: "Kept your monkey for 30 days", Category: CategoryStreak,
			Condition: threshold(model.FieldAgeDays, AtLeast, 30)},
		{Key: "century_club", Icon: "💯", Title: "Century Club", Description: "100 days with your monkey", Category: CategoryStreak,
			Condition: threshold(model.FieldAgeDays, AtLeast, 100)},

		{Key: "rare_trait", Icon: "⭐", Title: "Lucky Find", Description: "Obtained a rare trait", Category: CategoryRarity,
			Condition: HasRarity(traits, model.Rare, match)},
		{Key: "legendary", Icon: "🦄", Title: "Legendary", Description: "Obtained a legendary trait", Category: CategoryRarity,
			Condition: HasRarity(traits, model.Legendary, match)},
		{Key: "high_rarity", Icon: "🌟", Title: "Rare Breed", Description: "Rarity score above 50", Category: CategoryRarity,
			Condition: threshold(model.FieldRarityScore, AtLeast, 50)},
		{Key: "elite_rarity", Icon: "👑", Title: "Elite", Description: "Rarity score above 75", Category: CategoryRarity,
			Condition: threshold(model.FieldRarityScore, AtLeast, 75)},

		{Key: "first_mutation", Icon: "🧬", Title: "First Change", Description: "First AI mutation", Category: CategoryMutation,
			Condition: threshold(model.FieldTotalMutations, AtLeast, 1)},
		{Key: "mutant", Icon: "🔬", Title: "Mutant", Description: "10 total mutations", Category: CategoryMutation,
			Condition: threshold(model.FieldTotalMutations, AtLeast, 10)},
		{Key: "evolved", Icon: "🦋", Title: "Fully Evolved", Description: "50 total mutations", Category: CategoryMutation,
			Condition: threshold(model.FieldTotalMutations, AtLeast, 50)},

		{Key: "parent", Icon: "👶", Title: "Proud Parent", Description: "Someone forked your monkey", Category: CategorySocial,
			Condition: threshold(model.FieldChildrenCount, AtLeast, 1)},
		{Key: "dynasty", Icon: "👑", Title: "Dynasty Founder", Description: "5+ descendants from your monkey", Category: CategorySocial,
			Condition: threshold(model.FieldChildrenCount, AtLeast, 5)},
		{Key: "influencer", Icon: "📣", Title: "Monkey Influencer", Description: "10+ descendants from your monkey", Category: CategorySocial,
			Condition: threshold(model.FieldChildrenCount, AtLeast, 10)},

		{Key: "top_100", Icon: "📊", Title: "Top 100", Description: "Reached top 100 in rarity leaderboard", Category: CategoryLeaderboard,
			Condition: threshold(model.FieldLeaderboardRank, AtMost, 100)},
		{Key: "top_10", Icon: "🏆", Title: "Top 10", Description: "Reached top 10 in rarity leaderboard", Category: CategoryLeaderboard,
			Condition: threshold(model.FieldLeaderboardRank, AtMost, 10)},
		{Key: "champion", Icon: "🥇", Title: "Champion", Description: "Reached #1 in rarity leaderboard", Category: CategoryLeaderboard,
			Condition: threshold(model.FieldLeaderboardRank, Equal, 1)},

		{Key: "accessorized", Icon: "🎩", Title: "Accessorized", Description: "Has an accessory equipped", Category: CategoryTraits,
			Condition: HasTrait(genetics.Accessory)},
		{Key: "patterned", Icon: "🎨", Title: "Patterned", Description: "Has a special pattern", Category: CategoryTraits,
			Condition: HasTrait(genetics.Pattern)},
		{Key: "special_one", Icon: "✨", Title: "The Special One", Description: "Has a special trait", Category: CategoryTraits,
			Condition: HasTrait(genetics.Special)},

		{Key: "gen_2", Icon: "2️⃣", Title: "Second Gen", Description: "A 2nd generation monkey", Category: CategoryGeneration,
			Condition: threshold(model.FieldGeneration, AtLeast, 2)},
		{Key: "gen_5", Icon: "5️⃣", Title: "Fifth Gen", Description: "A 5th generation monkey", Category: CategoryGeneration,
			Condition: threshold(model.FieldGeneration, AtLeast, 5)},
	}
}
