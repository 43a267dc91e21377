package genetics

import (
	"errors"
	"reflect"
	"testing"

	"forkmonkey/internal/model"
)

func TestRecordRoundTrip(t *testing.T) {
	engine := newTestEngine(t, 31)
	for generation := 1; generation <= 6; generation++ {
		for i := 0; i < 50; i++ {
			dna, err := engine.GenerateRandomDNA(generation)
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			record := DefaultCatalog.ToRecord(dna)
			if record[model.GenerationKey] == "" {
				t.Fatalf("expected generation key in record: %+v", record)
			}
			decoded, err := DefaultCatalog.FromRecord(record)
			if err != nil {
				t.Fatalf("from record: %v", err)
			}
			if !reflect.DeepEqual(decoded, dna) {
				t.Fatalf("round trip mismatch: %+v vs %+v", decoded, dna)
			}
		}
	}
}

func TestFromRecordResolvesRarity(t *testing.T) {
	record := model.DNARecord{
		BodyColor:      "rainbow",
		FaceExpression: "wise",
		Accessory:      None,
		Pattern:        "stripes",
		Background:     "jungle",
		Special:        "genesis_blessing",
	}
	dna, err := DefaultCatalog.FromRecord(record)
	if err != nil {
		t.Fatalf("from record: %v", err)
	}
	if dna.Generation != model.DefaultGeneration {
		t.Fatalf("expected default generation, got %d", dna.Generation)
	}
	want := map[string]model.Rarity{
		BodyColor:      model.Legendary,
		FaceExpression: model.Rare,
		Accessory:      model.Common,
		Pattern:        model.Uncommon,
		Background:     model.Common,
		Special:        model.Legendary,
	}
	for category, rarity := range want {
		if dna.Traits[category].Rarity != rarity {
			t.Fatalf("%s: expected %s, got %s", category, rarity, dna.Traits[category].Rarity)
		}
	}
	if got := DefaultCatalog.RarityScore(dna); got != 40.0 {
		t.Fatalf("expected rarity score 40, got %v", got)
	}
}

func TestFromRecordErrors(t *testing.T) {
	valid := model.DNARecord{
		BodyColor:      "brown",
		FaceExpression: "happy",
		Accessory:      None,
		Pattern:        None,
		Background:     "beach",
		Special:        None,
	}
	cases := []struct {
		name   string
		mutate func(model.DNARecord)
		want   error
	}{
		{name: "missing category", mutate: func(r model.DNARecord) { delete(r, Pattern) }, want: ErrMissingTrait},
		{name: "unknown option", mutate: func(r model.DNARecord) { r[BodyColor] = "plaid" }, want: ErrUnknownTrait},
		{name: "unknown category", mutate: func(r model.DNARecord) { r["tail"] = "curly" }, want: ErrUnknownTrait},
		{name: "zero generation", mutate: func(r model.DNARecord) { r[model.GenerationKey] = "0" }, want: ErrInvalidGeneration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := make(model.DNARecord, len(valid))
			for k, v := range valid {
				record[k] = v
			}
			tc.mutate(record)
			if _, err := DefaultCatalog.FromRecord(record); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	record := model.DNARecord{model.GenerationKey: "two"}
	if _, err := DefaultCatalog.FromRecord(record); err == nil {
		t.Fatal("expected parse error for non-numeric generation")
	}
}

func TestNewCatalogValidation(t *testing.T) {
	opt := Option{Name: "brown", Rarity: model.Common, Weight: 1}
	cases := []struct {
		name       string
		categories []Category
	}{
		{name: "empty", categories: nil},
		{name: "unnamed category", categories: []Category{{Options: []Option{opt}}}},
		{name: "reserved name", categories: []Category{{Name: model.GenerationKey, Options: []Option{opt}}}},
		{name: "duplicate category", categories: []Category{{Name: "a", Options: []Option{opt}}, {Name: "a", Options: []Option{opt}}}},
		{name: "duplicate option", categories: []Category{{Name: "a", Options: []Option{opt, opt}}}},
		{name: "zero weight", categories: []Category{{Name: "a", Options: []Option{{Name: "x", Weight: 0}}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewCatalog(tc.categories); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCatalogRarityOf(t *testing.T) {
	if r, ok := DefaultCatalog.RarityOf(Special, "genesis_blessing"); !ok || r != model.Legendary {
		t.Fatalf("expected legendary, got %s ok=%v", r, ok)
	}
	if _, ok := DefaultCatalog.RarityOf(Special, "unknown"); ok {
		t.Fatal("expected unknown option to be unresolved")
	}
	if _, ok := DefaultCatalog.RarityOf("tail", "curly"); ok {
		t.Fatal("expected unknown category to be unresolved")
	}
}
