package genetics

import (
	"fmt"
	"strconv"

	"forkmonkey/internal/model"
)

// ToRecord flattens dna into the serialized form read by the achievement
// evaluator and by storage.
func (c *Catalog) ToRecord(dna DNA) model.DNARecord {
	record := make(model.DNARecord, len(dna.Traits)+1)
	for category, trait := range dna.Traits {
		record[category] = trait.Value
	}
	record[model.GenerationKey] = strconv.Itoa(dna.Generation)
	return record
}

// FromRecord is the inverse of ToRecord. Every catalog category must be
// present with an option from that category; a missing generation defaults
// to model.DefaultGeneration.
func (c *Catalog) FromRecord(record model.DNARecord) (DNA, error) {
	generation := model.DefaultGeneration
	if raw, ok := record[model.GenerationKey]; ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return DNA{}, fmt.Errorf("parse generation %q: %w", raw, err)
		}
		if err := validateGeneration(parsed); err != nil {
			return DNA{}, err
		}
		generation = parsed
	}

	for key := range record {
		if key == model.GenerationKey {
			continue
		}
		if _, ok := c.index[key]; !ok {
			return DNA{}, fmt.Errorf("%w: category %s", ErrUnknownTrait, key)
		}
	}

	dna := DNA{Generation: generation, Traits: make(map[string]Trait, len(c.categories))}
	for _, cat := range c.categories {
		value, ok := record[cat.Name]
		if !ok {
			return DNA{}, fmt.Errorf("%w: %s", ErrMissingTrait, cat.Name)
		}
		opt, ok := cat.Lookup(value)
		if !ok {
			return DNA{}, fmt.Errorf("%w: %s=%s", ErrUnknownTrait, cat.Name, value)
		}
		dna.Traits[cat.Name] = Trait{Category: cat.Name, Value: opt.Name, Rarity: opt.Rarity}
	}
	return dna, nil
}
