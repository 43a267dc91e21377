package storage

import (
	"context"

	"forkmonkey/internal/model"
)

// Store persists creatures and their unlocked achievements. Saves replace any
// existing record with the same key.
type Store interface {
	Init(ctx context.Context) error
	SaveCreature(ctx context.Context, creature model.Creature) error
	GetCreature(ctx context.Context, id string) (model.Creature, bool, error)
	ListCreatures(ctx context.Context) ([]model.Creature, error)
	SaveAchievements(ctx context.Context, record model.AchievementsRecord) error
	GetAchievements(ctx context.Context, creatureID string) (model.AchievementsRecord, bool, error)
}
