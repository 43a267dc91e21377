package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"forkmonkey/internal/model"
)

var errNotInitialized = errors.New("store is not initialized")

type MemoryStore struct {
	mu           sync.RWMutex
	initialized  bool
	creatures    map[string]model.Creature
	achievements map[string]model.AchievementsRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.creatures = make(map[string]model.Creature)
	s.achievements = make(map[string]model.AchievementsRecord)
	return nil
}

func (s *MemoryStore) SaveCreature(_ context.Context, creature model.Creature) error {
	if err := validateID(creature.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.creatures[creature.ID] = cloneCreature(creature)
	return nil
}

func (s *MemoryStore) GetCreature(_ context.Context, id string) (model.Creature, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creature, ok := s.creatures[id]
	if !ok {
		return model.Creature{}, false, nil
	}
	return cloneCreature(creature), true, nil
}

func (s *MemoryStore) ListCreatures(_ context.Context) ([]model.Creature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Creature, 0, len(s.creatures))
	for _, creature := range s.creatures {
		out = append(out, cloneCreature(creature))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) SaveAchievements(_ context.Context, record model.AchievementsRecord) error {
	if err := validateID(record.CreatureID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	record.Unlocked = append([]model.Unlocked{}, record.Unlocked...)
	s.achievements[record.CreatureID] = record
	return nil
}

func (s *MemoryStore) GetAchievements(_ context.Context, creatureID string) (model.AchievementsRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.achievements[creatureID]
	if !ok {
		return model.AchievementsRecord{}, false, nil
	}
	record.Unlocked = append([]model.Unlocked{}, record.Unlocked...)
	return record, true, nil
}

func cloneCreature(c model.Creature) model.Creature {
	out := c
	out.ParentIDs = append([]string(nil), c.ParentIDs...)
	out.Stats = c.Stats.Clone()
	if c.DNA != nil {
		out.DNA = make(model.DNARecord, len(c.DNA))
		for k, v := range c.DNA {
			out.DNA[k] = v
		}
	}
	return out
}
