package genetics

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"forkmonkey/internal/model"
)

const (
	DefaultMutationRate      = 0.1
	DefaultEvolutionStrength = 0.3
)

var (
	ErrEmptyCategory      = errors.New("category has no eligible options")
	ErrInvalidGeneration  = errors.New("generation must be >= 1")
	ErrInvalidProbability = errors.New("probability must be within [0, 1]")
	ErrUnknownTrait       = errors.New("unknown trait")
	ErrMissingTrait       = errors.New("missing trait")
)

// Trait is the option selected for one category.
type Trait struct {
	Category string
	Value    string
	Rarity   model.Rarity
}

// DNA is a complete trait set. It is owned by the caller; the engine never
// keeps a reference to it.
type DNA struct {
	Generation int
	Traits     map[string]Trait
}

func (d DNA) Clone() DNA {
	out := DNA{Generation: d.Generation, Traits: make(map[string]Trait, len(d.Traits))}
	for k, v := range d.Traits {
		out.Traits[k] = v
	}
	return out
}

// Value returns the option name for category, or None when absent.
func (d DNA) Value(category string) string {
	if t, ok := d.Traits[category]; ok {
		return t.Value
	}
	return None
}

// Evolution is the outcome of Engine.Evolve.
type Evolution struct {
	DNA DNA
	// Mutated lists the categories whose value changed, in catalog order.
	Mutated []string
}

// Engine samples and transforms DNA against a catalog. It is not safe for
// concurrent use because it draws from a single *rand.Rand.
type Engine struct {
	rng     *rand.Rand
	catalog *Catalog
}

// NewEngine builds an engine over catalog, or DefaultCatalog when nil.
func NewEngine(rng *rand.Rand, catalog *Catalog) (*Engine, error) {
	if rng == nil {
		return nil, errors.New("random source is required")
	}
	if catalog == nil {
		catalog = DefaultCatalog
	}
	return &Engine{rng: rng, catalog: catalog}, nil
}

func (e *Engine) Catalog() *Catalog { return e.catalog }

// GenerateRandomDNA draws one option per category from the options eligible
// at generation.
func (e *Engine) GenerateRandomDNA(generation int) (DNA, error) {
	if err := validateGeneration(generation); err != nil {
		return DNA{}, err
	}
	dna := DNA{Generation: generation, Traits: make(map[string]Trait, e.catalog.Len())}
	for _, cat := range e.catalog.categories {
		trait, err := e.draw(cat, generation)
		if err != nil {
			return DNA{}, err
		}
		dna.Traits[cat.Name] = trait
	}
	return dna, nil
}

// Breed produces a child one generation past its oldest parent. Each
// category is redrawn with probability mutationRate, otherwise inherited from
// a uniformly chosen parent. A nil parentB breeds asexually from parentA.
func (e *Engine) Breed(parentA DNA, parentB *DNA, mutationRate float64) (DNA, error) {
	if err := validateProbability("mutation rate", mutationRate); err != nil {
		return DNA{}, err
	}
	if err := validateGeneration(parentA.Generation); err != nil {
		return DNA{}, fmt.Errorf("parent a: %w", err)
	}
	generation := parentA.Generation
	if parentB != nil {
		if err := validateGeneration(parentB.Generation); err != nil {
			return DNA{}, fmt.Errorf("parent b: %w", err)
		}
		generation = max(generation, parentB.Generation)
	}
	generation++

	child := DNA{Generation: generation, Traits: make(map[string]Trait, e.catalog.Len())}
	for _, cat := range e.catalog.categories {
		if e.rng.Float64() < mutationRate {
			trait, err := e.draw(cat, generation)
			if err != nil {
				return DNA{}, err
			}
			child.Traits[cat.Name] = trait
			continue
		}

		source := parentA
		if parentB != nil && e.rng.Intn(2) == 1 {
			source = *parentB
		}
		inherited, ok := source.Traits[cat.Name]
		if !ok {
			trait, err := e.draw(cat, generation)
			if err != nil {
				return DNA{}, err
			}
			inherited = trait
		}
		child.Traits[cat.Name] = inherited
	}
	return child, nil
}

// Evolve redraws each category with probability strength. Categories missing
// from dna are always drawn. The input is not modified.
func (e *Engine) Evolve(dna DNA, strength float64) (Evolution, error) {
	if err := validateProbability("evolution strength", strength); err != nil {
		return Evolution{}, err
	}
	if err := validateGeneration(dna.Generation); err != nil {
		return Evolution{}, err
	}

	evolved := dna.Clone()
	var mutated []string
	for _, cat := range e.catalog.categories {
		current, ok := evolved.Traits[cat.Name]
		if ok && e.rng.Float64() >= strength {
			continue
		}
		trait, err := e.draw(cat, dna.Generation)
		if err != nil {
			return Evolution{}, err
		}
		evolved.Traits[cat.Name] = trait
		if !ok || current.Value != trait.Value {
			mutated = append(mutated, cat.Name)
		}
	}
	return Evolution{DNA: evolved, Mutated: mutated}, nil
}

// tierPoints feeds RarityScore; achievement thresholds depend on it.
var tierPoints = map[model.Rarity]float64{
	model.Common:    0,
	model.Uncommon:  1,
	model.Rare:      3,
	model.Legendary: 10,
}

// RarityScore maps dna onto 0..100: the sum of tier points over the catalog's
// categories relative to an all-legendary trait set, rounded to one decimal.
func (c *Catalog) RarityScore(dna DNA) float64 {
	if len(c.categories) == 0 {
		return 0
	}
	total := 0.0
	for _, cat := range c.categories {
		if trait, ok := dna.Traits[cat.Name]; ok {
			total += tierPoints[trait.Rarity]
		}
	}
	ceiling := tierPoints[model.Legendary] * float64(len(c.categories))
	return math.Round(total/ceiling*1000) / 10
}

func (e *Engine) RarityScore(dna DNA) float64 {
	return e.catalog.RarityScore(dna)
}

func (e *Engine) draw(cat Category, generation int) (Trait, error) {
	eligible := cat.Eligible(generation)
	total := 0.0
	for _, opt := range eligible {
		total += opt.Weight
	}
	if len(eligible) == 0 || total <= 0 {
		return Trait{}, fmt.Errorf("%w: %s at generation %d", ErrEmptyCategory, cat.Name, generation)
	}

	pick := e.rng.Float64() * total
	acc := 0.0
	chosen := eligible[len(eligible)-1]
	for _, opt := range eligible {
		acc += opt.Weight
		if pick < acc {
			chosen = opt
			break
		}
	}
	return Trait{Category: cat.Name, Value: chosen.Name, Rarity: chosen.Rarity}, nil
}

func validateGeneration(generation int) error {
	if generation < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidGeneration, generation)
	}
	return nil
}

func validateProbability(name string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: %s %v", ErrInvalidProbability, name, p)
	}
	return nil
}
