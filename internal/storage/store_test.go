package storage

import (
	"context"
	"reflect"
	"testing"
	"time"

	"forkmonkey/internal/model"
)

func sampleCreature(id string) model.Creature {
	return model.Creature{
		VersionedRecord: Versioned(),
		ID:              id,
		ParentIDs:       []string{"parent-1"},
		DNA: model.DNARecord{
			"body_color":        "brown",
			"accessory":         "hat",
			model.GenerationKey: "2",
		},
		Stats: model.Stats{
			CreatedAt:   "2024-01-01T00:00:00Z",
			Generation:  model.Int(2),
			RarityScore: model.Float(12.5),
		},
		UpdatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := store.GetCreature(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing creature, ok=%v err=%v", ok, err)
	}

	first := sampleCreature("monkey-b")
	if err := store.SaveCreature(ctx, first); err != nil {
		t.Fatalf("save creature: %v", err)
	}
	loaded, ok, err := store.GetCreature(ctx, first.ID)
	if err != nil {
		t.Fatalf("get creature: %v", err)
	}
	if !ok {
		t.Fatalf("expected creature %s", first.ID)
	}
	if !reflect.DeepEqual(loaded, first) {
		t.Fatalf("creature mismatch\nloaded=%+v\nsaved=%+v", loaded, first)
	}

	updated := sampleCreature("monkey-b")
	updated.Stats.AgeDays = model.Int(9)
	if err := store.SaveCreature(ctx, updated); err != nil {
		t.Fatalf("overwrite creature: %v", err)
	}
	loaded, _, err = store.GetCreature(ctx, updated.ID)
	if err != nil {
		t.Fatalf("get overwritten creature: %v", err)
	}
	if loaded.Stats.AgeDaysOrDefault() != 9 {
		t.Fatalf("expected last write to win, got age %d", loaded.Stats.AgeDaysOrDefault())
	}

	if err := store.SaveCreature(ctx, sampleCreature("monkey-a")); err != nil {
		t.Fatalf("save second creature: %v", err)
	}
	all, err := store.ListCreatures(ctx)
	if err != nil {
		t.Fatalf("list creatures: %v", err)
	}
	if len(all) != 2 || all[0].ID != "monkey-a" || all[1].ID != "monkey-b" {
		t.Fatalf("unexpected creature list: %+v", all)
	}

	if _, ok, err := store.GetAchievements(ctx, "monkey-a"); err != nil || ok {
		t.Fatalf("expected no achievements yet, ok=%v err=%v", ok, err)
	}
	record := model.AchievementsRecord{
		VersionedRecord: Versioned(),
		CreatureID:      "monkey-a",
		Unlocked: []model.Unlocked{
			{Key: "first_hatch", Icon: "🥚", Title: "First Hatch", Description: "Adopted your first monkey", Category: "milestone"},
		},
		UpdatedAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	if err := store.SaveAchievements(ctx, record); err != nil {
		t.Fatalf("save achievements: %v", err)
	}
	loadedRecord, ok, err := store.GetAchievements(ctx, "monkey-a")
	if err != nil {
		t.Fatalf("get achievements: %v", err)
	}
	if !ok || !reflect.DeepEqual(loadedRecord, record) {
		t.Fatalf("achievements mismatch\nloaded=%+v\nsaved=%+v", loadedRecord, record)
	}

	if err := store.SaveCreature(ctx, sampleCreature("")); err == nil {
		t.Fatal("expected error for empty id")
	}
	if err := store.SaveCreature(ctx, sampleCreature("../escape")); err == nil {
		t.Fatal("expected error for path-like id")
	}
}
