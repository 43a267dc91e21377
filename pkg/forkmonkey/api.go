package forkmonkey

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"forkmonkey/internal/achievements"
	"forkmonkey/internal/genetics"
	"forkmonkey/internal/model"
	"forkmonkey/internal/storage"
)

const (
	defaultDataDir = "monkey_data"
	defaultDBPath  = "forkmonkey.db"
)

var (
	ErrCreatureNotFound = errors.New("creature not found")
	ErrCreatureExists   = errors.New("creature already exists")
)

// Options configures a Client. Zero values select the defaults; a zero Seed
// seeds from the clock. MutationRate and EvolutionStrength use the genetics
// defaults when nil, so an explicit 0 disables mutation.
type Options struct {
	StoreKind         string
	DataDir           string
	DBPath            string
	Seed              int64
	MutationRate      *float64
	EvolutionStrength *float64
	RarityMatch       string
	Logger            *slog.Logger
	Now               func() time.Time
}

type Client struct {
	store     storage.Store
	evaluator *achievements.Evaluator
	logger    *slog.Logger
	now       func() time.Time

	mutationRate      float64
	evolutionStrength float64

	// engine draws from one *rand.Rand.
	mu     sync.Mutex
	engine *genetics.Engine
}

type HatchRequest struct {
	// ID is generated when empty.
	ID         string
	Generation int
}

type BreedRequest struct {
	ID      string
	ParentA string
	// ParentB is optional; an empty value breeds asexually from ParentA.
	ParentB string
}

type EvolveSummary struct {
	Creature model.Creature
	Mutated  []string
}

type RankItem struct {
	Rank        int
	CreatureID  string
	RarityScore float64
}

type AchievementsSummary struct {
	Progress  achievements.Progress
	Newly     []model.Unlocked
	UpdatedAt time.Time
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	location := ""
	switch storeKind {
	case storage.KindFile:
		location = opts.DataDir
		if location == "" {
			location = defaultDataDir
		}
	case storage.KindSQLite:
		location = opts.DBPath
		if location == "" {
			location = defaultDBPath
		}
	}

	mutationRate := genetics.DefaultMutationRate
	if opts.MutationRate != nil {
		mutationRate = *opts.MutationRate
	}
	evolutionStrength := genetics.DefaultEvolutionStrength
	if opts.EvolutionStrength != nil {
		evolutionStrength = *opts.EvolutionStrength
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	match, err := achievements.ParseRarityMatch(opts.RarityMatch)
	if err != nil {
		return nil, err
	}
	engine, err := genetics.NewEngine(rand.New(rand.NewSource(seed)), genetics.DefaultCatalog)
	if err != nil {
		return nil, err
	}
	evaluator, err := achievements.NewEvaluator(
		achievements.WithTraitCatalog(engine.Catalog()),
		achievements.WithRarityMatch(match),
		achievements.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	if !(mutationRate >= 0 && mutationRate <= 1) || !(evolutionStrength >= 0 && evolutionStrength <= 1) {
		return nil, fmt.Errorf("%w: mutation rate %v, evolution strength %v", genetics.ErrInvalidProbability, mutationRate, evolutionStrength)
	}

	store, err := storage.NewStore(storeKind, location)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:             store,
		evaluator:         evaluator,
		logger:            logger,
		now:               now,
		mutationRate:      mutationRate,
		evolutionStrength: evolutionStrength,
		engine:            engine,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

// Hatch creates a creature with fresh random DNA and default statistics.
func (c *Client) Hatch(ctx context.Context, req HatchRequest) (model.Creature, error) {
	generation := req.Generation
	if generation == 0 {
		generation = model.DefaultGeneration
	}
	id, err := c.claimID(ctx, req.ID)
	if err != nil {
		return model.Creature{}, err
	}

	c.mu.Lock()
	dna, err := c.engine.GenerateRandomDNA(generation)
	c.mu.Unlock()
	if err != nil {
		return model.Creature{}, err
	}

	creature := c.newCreature(id, nil, dna)
	if err := c.store.SaveCreature(ctx, creature); err != nil {
		return model.Creature{}, err
	}
	c.logger.Info("creature hatched", "id", id, "generation", generation, "rarity_score", creature.Stats.RarityScoreOrDefault())
	return creature, nil
}

// Evolve applies one evolution step to a stored creature, refreshes its age
// and rarity score and adds the number of changed traits to total_mutations.
func (c *Client) Evolve(ctx context.Context, id string) (EvolveSummary, error) {
	creature, err := c.load(ctx, id)
	if err != nil {
		return EvolveSummary{}, err
	}
	catalog := c.engine.Catalog()
	dna, err := catalog.FromRecord(creature.DNA)
	if err != nil {
		return EvolveSummary{}, fmt.Errorf("creature %s: %w", id, err)
	}

	c.mu.Lock()
	evolution, err := c.engine.Evolve(dna, c.evolutionStrength)
	c.mu.Unlock()
	if err != nil {
		return EvolveSummary{}, err
	}

	now := c.now().UTC()
	creature.DNA = catalog.ToRecord(evolution.DNA)
	creature.Stats.TotalMutations = model.Int(creature.Stats.TotalMutationsOrDefault() + len(evolution.Mutated))
	creature.Stats.RarityScore = model.Float(catalog.RarityScore(evolution.DNA))
	if created, err := creature.Stats.CreatedTime(); err == nil {
		creature.Stats.AgeDays = model.Int(ageDays(created, now))
	} else {
		c.logger.Warn("age not refreshed", "id", id, "error", err)
	}
	creature.UpdatedAt = now

	if err := c.store.SaveCreature(ctx, creature); err != nil {
		return EvolveSummary{}, err
	}
	c.logger.Info("creature evolved", "id", id, "mutated", len(evolution.Mutated))
	return EvolveSummary{Creature: creature, Mutated: evolution.Mutated}, nil
}

// Breed stores a child of one or two stored parents and increments each
// parent's children_count.
func (c *Client) Breed(ctx context.Context, req BreedRequest) (model.Creature, error) {
	parentA, err := c.load(ctx, req.ParentA)
	if err != nil {
		return model.Creature{}, err
	}
	parents := []model.Creature{parentA}
	if req.ParentB != "" && req.ParentB != req.ParentA {
		parentB, err := c.load(ctx, req.ParentB)
		if err != nil {
			return model.Creature{}, err
		}
		parents = append(parents, parentB)
	}

	catalog := c.engine.Catalog()
	dnaA, err := catalog.FromRecord(parentA.DNA)
	if err != nil {
		return model.Creature{}, fmt.Errorf("parent %s: %w", parentA.ID, err)
	}
	var dnaB *genetics.DNA
	if len(parents) == 2 {
		decoded, err := catalog.FromRecord(parents[1].DNA)
		if err != nil {
			return model.Creature{}, fmt.Errorf("parent %s: %w", parents[1].ID, err)
		}
		dnaB = &decoded
	}

	id, err := c.claimID(ctx, req.ID)
	if err != nil {
		return model.Creature{}, err
	}

	c.mu.Lock()
	dna, err := c.engine.Breed(dnaA, dnaB, c.mutationRate)
	c.mu.Unlock()
	if err != nil {
		return model.Creature{}, err
	}

	parentIDs := make([]string, 0, len(parents))
	for _, p := range parents {
		parentIDs = append(parentIDs, p.ID)
	}
	child := c.newCreature(id, parentIDs, dna)
	if err := c.store.SaveCreature(ctx, child); err != nil {
		return model.Creature{}, err
	}

	for _, p := range parents {
		p.Stats.ChildrenCount = model.Int(p.Stats.ChildrenCountOrDefault() + 1)
		p.UpdatedAt = child.UpdatedAt
		if err := c.store.SaveCreature(ctx, p); err != nil {
			return model.Creature{}, fmt.Errorf("update parent %s: %w", p.ID, err)
		}
	}
	c.logger.Info("creature bred", "id", id, "parents", parentIDs, "generation", dna.Generation)
	return child, nil
}

// Rank orders every stored creature by rarity score, highest first, and
// stores each position as leaderboard_rank. Ties go to the older creature,
// then to the lower ID.
func (c *Client) Rank(ctx context.Context) ([]RankItem, error) {
	creatures, err := c.store.ListCreatures(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(creatures, func(i, j int) bool {
		a, b := creatures[i], creatures[j]
		if sa, sb := a.Stats.RarityScoreOrDefault(), b.Stats.RarityScoreOrDefault(); sa != sb {
			return sa > sb
		}
		ta, errA := a.Stats.CreatedTime()
		tb, errB := b.Stats.CreatedTime()
		if errA == nil && errB == nil && !ta.Equal(tb) {
			return ta.Before(tb)
		}
		return a.ID < b.ID
	})

	items := make([]RankItem, 0, len(creatures))
	for i, creature := range creatures {
		rank := i + 1
		items = append(items, RankItem{Rank: rank, CreatureID: creature.ID, RarityScore: creature.Stats.RarityScoreOrDefault()})
		if creature.Stats.LeaderboardRank != nil && *creature.Stats.LeaderboardRank == rank {
			continue
		}
		creature.Stats.LeaderboardRank = model.Int(rank)
		if err := c.store.SaveCreature(ctx, creature); err != nil {
			return nil, err
		}
	}
	c.logger.Info("leaderboard ranked", "creatures", len(items))
	return items, nil
}

// Achievements evaluates a stored creature, persists the unlocked list and
// reports which achievements are new since the previous evaluation.
func (c *Client) Achievements(ctx context.Context, id string) (AchievementsSummary, error) {
	creature, err := c.load(ctx, id)
	if err != nil {
		return AchievementsSummary{}, err
	}
	previous, _, err := c.store.GetAchievements(ctx, id)
	if err != nil {
		return AchievementsSummary{}, err
	}

	progress := c.evaluator.Progress(creature.Stats, creature.DNA)
	newly := achievements.Newly(previous.Unlocked, progress.Unlocked)
	record := model.AchievementsRecord{
		VersionedRecord: storage.Versioned(),
		CreatureID:      id,
		Unlocked:        progress.Unlocked,
		UpdatedAt:       c.now().UTC(),
	}
	if err := c.store.SaveAchievements(ctx, record); err != nil {
		return AchievementsSummary{}, err
	}
	for _, a := range newly {
		c.logger.Info("achievement unlocked", "id", id, "key", a.Key, "title", a.Title)
	}
	return AchievementsSummary{Progress: progress, Newly: newly, UpdatedAt: record.UpdatedAt}, nil
}

func (c *Client) Show(ctx context.Context, id string) (model.Creature, error) {
	return c.load(ctx, id)
}

func (c *Client) List(ctx context.Context) ([]model.Creature, error) {
	return c.store.ListCreatures(ctx)
}

func (c *Client) Catalog() *genetics.Catalog {
	return c.engine.Catalog()
}

// AchievementCount is the size of the achievement catalog.
func (c *Client) AchievementCount() int {
	return c.evaluator.Total()
}

func (c *Client) load(ctx context.Context, id string) (model.Creature, error) {
	if id == "" {
		return model.Creature{}, errors.New("creature id is required")
	}
	creature, ok, err := c.store.GetCreature(ctx, id)
	if err != nil {
		return model.Creature{}, err
	}
	if !ok {
		return model.Creature{}, fmt.Errorf("%w: %s", ErrCreatureNotFound, id)
	}
	return creature, nil
}

func (c *Client) claimID(ctx context.Context, id string) (string, error) {
	if id == "" {
		return uuid.New().String(), nil
	}
	_, ok, err := c.store.GetCreature(ctx, id)
	if err != nil {
		return "", err
	}
	if ok {
		return "", fmt.Errorf("%w: %s", ErrCreatureExists, id)
	}
	return id, nil
}

func (c *Client) newCreature(id string, parentIDs []string, dna genetics.DNA) model.Creature {
	now := c.now().UTC()
	catalog := c.engine.Catalog()
	return model.Creature{
		VersionedRecord: storage.Versioned(),
		ID:              id,
		ParentIDs:       parentIDs,
		DNA:             catalog.ToRecord(dna),
		Stats: model.Stats{
			CreatedAt:      now.Format(time.RFC3339),
			AgeDays:        model.Int(model.DefaultAgeDays),
			Generation:     model.Int(dna.Generation),
			TotalMutations: model.Int(model.DefaultTotalMutations),
			ChildrenCount:  model.Int(model.DefaultChildrenCount),
			RarityScore:    model.Float(catalog.RarityScore(dna)),
		},
		UpdatedAt: now,
	}
}

func ageDays(created, now time.Time) int {
	if now.Before(created) {
		return 0
	}
	return int(now.Sub(created).Hours() / 24)
}
