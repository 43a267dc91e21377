package achievements

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"forkmonkey/internal/genetics"
	"forkmonkey/internal/model"
)

// Progress summarizes one evaluation.
type Progress struct {
	Unlocked      []model.Unlocked            `json:"unlocked"`
	UnlockedCount int                         `json:"unlocked_count"`
	TotalCount    int                         `json:"total_count"`
	ByCategory    map[string][]model.Unlocked `json:"by_category"`
	// Categories lists ByCategory keys in catalog order.
	Categories []string `json:"categories"`
	Percentage float64  `json:"percentage"`
}

type config struct {
	traits      *genetics.Catalog
	match       RarityMatch
	definitions []Definition
	logger      *slog.Logger
}

type Option func(*config)

// WithTraitCatalog sets the catalog used to resolve rarity tiers.
func WithTraitCatalog(c *genetics.Catalog) Option {
	return func(cfg *config) { cfg.traits = c }
}

func WithRarityMatch(m RarityMatch) Option {
	return func(cfg *config) { cfg.match = m }
}

// WithDefinitions replaces the default catalog.
func WithDefinitions(defs []Definition) Option {
	return func(cfg *config) { cfg.definitions = defs }
}

func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = l }
}

// Evaluator checks a fixed achievement catalog against stats and dna.
type Evaluator struct {
	definitions []Definition
	logger      *slog.Logger
}

func NewEvaluator(opts ...Option) (*Evaluator, error) {
	cfg := config{traits: genetics.DefaultCatalog, match: MatchExact}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.definitions == nil {
		cfg.definitions = DefaultDefinitions(cfg.traits, cfg.match)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	seen := make(map[string]struct{}, len(cfg.definitions))
	for _, def := range cfg.definitions {
		if def.Key == "" {
			return nil, errors.New("achievement key is required")
		}
		if _, dup := seen[def.Key]; dup {
			return nil, fmt.Errorf("duplicate achievement key: %s", def.Key)
		}
		if def.Condition == nil {
			return nil, fmt.Errorf("achievement %s: condition is required", def.Key)
		}
		seen[def.Key] = struct{}{}
	}

	return &Evaluator{
		definitions: append([]Definition(nil), cfg.definitions...),
		logger:      cfg.logger,
	}, nil
}

func (e *Evaluator) Definitions() []Definition {
	return append([]Definition(nil), e.definitions...)
}

func (e *Evaluator) Total() int { return len(e.definitions) }

// Check evaluates every definition in catalog order and returns the unlocked
// ones. A predicate that panics counts as not satisfied; the rest of the
// catalog is still evaluated.
func (e *Evaluator) Check(stats model.Stats, dna model.DNARecord) []model.Unlocked {
	unlocked := make([]model.Unlocked, 0, len(e.definitions))
	for _, def := range e.definitions {
		if e.satisfied(def, stats, dna) {
			unlocked = append(unlocked, def.project())
		}
	}
	return unlocked
}

func (e *Evaluator) satisfied(def Definition, stats model.Stats, dna model.DNARecord) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug("achievement predicate failed", "key", def.Key, "panic", r)
			ok = false
		}
	}()
	return def.Condition(stats.Clone(), dna)
}

// Progress wraps Check with per-category grouping and a completion
// percentage rounded to one decimal.
func (e *Evaluator) Progress(stats model.Stats, dna model.DNARecord) Progress {
	unlocked := e.Check(stats, dna)
	return Summarize(unlocked, e.Total())
}

// Summarize groups an unlocked list, preserving its order, and computes the
// completion percentage against total.
func Summarize(unlocked []model.Unlocked, total int) Progress {
	byCategory := make(map[string][]model.Unlocked)
	var categories []string
	for _, a := range unlocked {
		if _, ok := byCategory[a.Category]; !ok {
			categories = append(categories, a.Category)
		}
		byCategory[a.Category] = append(byCategory[a.Category], a)
	}

	percentage := 0.0
	if total > 0 {
		percentage = math.Round(float64(len(unlocked))/float64(total)*1000) / 10
	}
	return Progress{
		Unlocked:      unlocked,
		UnlockedCount: len(unlocked),
		TotalCount:    total,
		ByCategory:    byCategory,
		Categories:    categories,
		Percentage:    percentage,
	}
}

// Newly returns the entries of current whose keys are absent from previous.
func Newly(previous, current []model.Unlocked) []model.Unlocked {
	known := make(map[string]struct{}, len(previous))
	for _, a := range previous {
		known[a.Key] = struct{}{}
	}
	var out []model.Unlocked
	for _, a := range current {
		if _, ok := known[a.Key]; !ok {
			out = append(out, a)
		}
	}
	return out
}
