package achievements

import (
	"testing"

	"forkmonkey/internal/genetics"
	"forkmonkey/internal/model"
)

func newTestEvaluator(t *testing.T, opts ...Option) *Evaluator {
	t.Helper()
	e, err := NewEvaluator(opts...)
	if err != nil {
		t.Fatalf("new evaluator: %v", err)
	}
	return e
}

func unlockedKeys(unlocked []model.Unlocked) map[string]bool {
	out := make(map[string]bool, len(unlocked))
	for _, a := range unlocked {
		out[a.Key] = true
	}
	return out
}

func TestDefaultCatalogShape(t *testing.T) {
	e := newTestEvaluator(t)
	if e.Total() != 22 {
		t.Fatalf("expected 22 achievements, got %d", e.Total())
	}
	defs := e.Definitions()
	if defs[0].Key != "first_hatch" || defs[len(defs)-1].Key != "gen_5" {
		t.Fatalf("unexpected catalog order: first=%s last=%s", defs[0].Key, defs[len(defs)-1].Key)
	}
}

func TestCheckEmptyRecords(t *testing.T) {
	e := newTestEvaluator(t)
	unlocked := e.Check(model.Stats{}, model.DNARecord{})
	if len(unlocked) != 0 {
		t.Fatalf("expected nothing unlocked on empty records, got %+v", unlocked)
	}
	if unlocked := e.Check(model.Stats{}, nil); len(unlocked) != 0 {
		t.Fatalf("expected nothing unlocked on nil dna, got %+v", unlocked)
	}
}

func TestCheckScenarios(t *testing.T) {
	e := newTestEvaluator(t)
	cases := []struct {
		name    string
		stats   model.Stats
		present []string
		absent  []string
	}{
		{
			name:    "first hatch",
			stats:   model.Stats{CreatedAt: "2024-01-01"},
			present: []string{"first_hatch"},
		},
		{
			name:    "week streak",
			stats:   model.Stats{AgeDays: model.Int(7)},
			present: []string{"week_streak"},
			absent:  []string{"month_keeper", "century_club", "first_hatch"},
		},
		{
			name:    "rarity score 75",
			stats:   model.Stats{RarityScore: model.Float(75)},
			present: []string{"high_rarity", "elite_rarity"},
		},
		{
			name:    "rarity score 50",
			stats:   model.Stats{RarityScore: model.Float(50)},
			present: []string{"high_rarity"},
			absent:  []string{"elite_rarity"},
		},
		{
			name:    "champion",
			stats:   model.Stats{LeaderboardRank: model.Int(1)},
			present: []string{"top_100", "top_10", "champion"},
		},
		{
			name:    "rank 50",
			stats:   model.Stats{LeaderboardRank: model.Int(50)},
			present: []string{"top_100"},
			absent:  []string{"top_10", "champion"},
		},
		{
			name:    "mutations",
			stats:   model.Stats{TotalMutations: model.Int(10)},
			present: []string{"first_mutation", "mutant"},
			absent:  []string{"evolved"},
		},
		{
			name:    "descendants",
			stats:   model.Stats{ChildrenCount: model.Int(5)},
			present: []string{"parent", "dynasty"},
			absent:  []string{"influencer"},
		},
		{
			name:   "generation defaults to one",
			stats:  model.Stats{},
			absent: []string{"gen_2", "gen_5"},
		},
		{
			name:    "fifth generation",
			stats:   model.Stats{Generation: model.Int(5)},
			present: []string{"gen_2", "gen_5"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			keys := unlockedKeys(e.Check(tc.stats, model.DNARecord{}))
			for _, k := range tc.present {
				if !keys[k] {
					t.Fatalf("expected %s unlocked, got %v", k, keys)
				}
			}
			for _, k := range tc.absent {
				if keys[k] {
					t.Fatalf("expected %s locked, got %v", k, keys)
				}
			}
		})
	}
}

func TestCheckRankFiftyUnlocksOnlyTop100(t *testing.T) {
	e := newTestEvaluator(t)
	unlocked := e.Check(model.Stats{LeaderboardRank: model.Int(50)}, model.DNARecord{})
	if len(unlocked) != 1 || unlocked[0].Key != "top_100" {
		t.Fatalf("expected only top_100, got %+v", unlocked)
	}
}

func TestCheckTraitSlots(t *testing.T) {
	e := newTestEvaluator(t)
	dna := model.DNARecord{
		genetics.Accessory: "hat",
		genetics.Pattern:   model.NoneTrait,
	}
	keys := unlockedKeys(e.Check(model.Stats{}, dna))
	if !keys["accessorized"] {
		t.Fatal("expected accessorized")
	}
	if keys["patterned"] || keys["special_one"] {
		t.Fatalf("unexpected trait achievements: %v", keys)
	}
}

func TestRarityMatching(t *testing.T) {
	legendaryOnly := model.DNARecord{
		genetics.BodyColor:  "rainbow",
		genetics.Pattern:    model.NoneTrait,
		"tail":              "curly",
		model.GenerationKey: "3",
	}

	exact := newTestEvaluator(t)
	keys := unlockedKeys(exact.Check(model.Stats{}, legendaryOnly))
	if !keys["legendary"] {
		t.Fatal("expected legendary under exact matching")
	}
	if keys["rare_trait"] {
		t.Fatal("rare_trait must not unlock from a legendary trait under exact matching")
	}

	atLeast := newTestEvaluator(t, WithRarityMatch(MatchAtLeast))
	keys = unlockedKeys(atLeast.Check(model.Stats{}, legendaryOnly))
	if !keys["legendary"] || !keys["rare_trait"] {
		t.Fatalf("expected legendary and rare_trait under at-least matching, got %v", keys)
	}

	rare := model.DNARecord{genetics.Accessory: "crown"}
	keys = unlockedKeys(atLeast.Check(model.Stats{}, rare))
	if !keys["rare_trait"] || keys["legendary"] {
		t.Fatalf("expected only rare_trait for a rare accessory, got %v", keys)
	}
}

func TestRarityUnknownOptionDoesNotMatch(t *testing.T) {
	e := newTestEvaluator(t, WithRarityMatch(MatchAtLeast))
	keys := unlockedKeys(e.Check(model.Stats{}, model.DNARecord{genetics.BodyColor: "plaid"}))
	if keys["rare_trait"] || keys["legendary"] {
		t.Fatalf("unknown option must not match, got %v", keys)
	}
}

func TestCheckIsolatesPanickingPredicate(t *testing.T) {
	defs := []Definition{
		{Key: "ok_before", Category: "test", Condition: func(model.Stats, model.DNARecord) bool { return true }},
		{Key: "broken", Category: "test", Condition: func(model.Stats, model.DNARecord) bool { panic("boom") }},
		{Key: "bad_rule", Category: "test", Condition: Rule{Field: "missing", Op: AtLeast, Threshold: 1}.Predicate()},
		{Key: "ok_after", Category: "test", Condition: threshold(model.FieldAgeDays, AtLeast, 0)},
	}
	e := newTestEvaluator(t, WithDefinitions(defs))
	unlocked := e.Check(model.Stats{}, model.DNARecord{})
	if len(unlocked) != 2 || unlocked[0].Key != "ok_before" || unlocked[1].Key != "ok_after" {
		t.Fatalf("expected ok_before and ok_after, got %+v", unlocked)
	}
}

func TestCheckAppendedPanickingPredicateLeavesDefaultsIntact(t *testing.T) {
	defs := append(DefaultDefinitions(nil, MatchExact), Definition{
		Key:       "explodes",
		Category:  "test",
		Condition: func(s model.Stats, _ model.DNARecord) bool { return *s.AgeDays > 0 },
	})
	e := newTestEvaluator(t, WithDefinitions(defs))
	keys := unlockedKeys(e.Check(model.Stats{CreatedAt: "2024-01-01"}, model.DNARecord{}))
	if !keys["first_hatch"] || keys["explodes"] || len(keys) != 1 {
		t.Fatalf("unexpected unlocked set: %v", keys)
	}
}

func TestNewEvaluatorValidatesDefinitions(t *testing.T) {
	always := func(model.Stats, model.DNARecord) bool { return true }
	cases := map[string][]Definition{
		"missing key":       {{Condition: always}},
		"duplicate key":     {{Key: "a", Condition: always}, {Key: "a", Condition: always}},
		"missing condition": {{Key: "a"}},
	}
	for name, defs := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewEvaluator(WithDefinitions(defs)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestProgressGroupsByCategory(t *testing.T) {
	e := newTestEvaluator(t)
	stats := model.Stats{
		CreatedAt:      "2024-01-01",
		AgeDays:        model.Int(15),
		RarityScore:    model.Float(45),
		Generation:     model.Int(2),
		TotalMutations: model.Int(12),
		ChildrenCount:  model.Int(2),
	}
	dna := model.DNARecord{
		genetics.BodyColor: "purple",
		genetics.Accessory: "crown",
		genetics.Pattern:   "stars",
		genetics.Special:   model.NoneTrait,
	}
	progress := e.Progress(stats, dna)

	wantOrder := []string{CategoryMilestone, CategoryStreak, CategoryRarity, CategoryMutation, CategorySocial, CategoryTraits, CategoryGeneration}
	if len(progress.Categories) != len(wantOrder) {
		t.Fatalf("unexpected categories: %v", progress.Categories)
	}
	for i, c := range wantOrder {
		if progress.Categories[i] != c {
			t.Fatalf("category %d: expected %s, got %s", i, c, progress.Categories[i])
		}
	}
	mutation := progress.ByCategory[CategoryMutation]
	if len(mutation) != 2 || mutation[0].Key != "first_mutation" || mutation[1].Key != "mutant" {
		t.Fatalf("unexpected mutation group: %+v", mutation)
	}
	// first_hatch, week_streak, rare_trait, first_mutation, mutant, parent,
	// accessorized, patterned, gen_2
	if progress.UnlockedCount != 9 || progress.TotalCount != 22 {
		t.Fatalf("unexpected counts: %d/%d", progress.UnlockedCount, progress.TotalCount)
	}
	if progress.Percentage != 40.9 {
		t.Fatalf("expected 40.9%%, got %v", progress.Percentage)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	progress := Summarize(nil, 0)
	if progress.Percentage != 0 || progress.UnlockedCount != 0 || len(progress.ByCategory) != 0 {
		t.Fatalf("unexpected empty progress: %+v", progress)
	}
}

func TestNewly(t *testing.T) {
	previous := []model.Unlocked{{Key: "first_hatch"}}
	current := []model.Unlocked{{Key: "first_hatch"}, {Key: "week_streak"}}
	fresh := Newly(previous, current)
	if len(fresh) != 1 || fresh[0].Key != "week_streak" {
		t.Fatalf("unexpected newly unlocked: %+v", fresh)
	}
}

func TestParseRarityMatch(t *testing.T) {
	for input, want := range map[string]RarityMatch{"": MatchExact, "exact": MatchExact, "at_least": MatchAtLeast} {
		got, err := ParseRarityMatch(input)
		if err != nil || got != want {
			t.Fatalf("parse %q: got %v err=%v", input, got, err)
		}
	}
	if _, err := ParseRarityMatch("fuzzy"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
