//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"forkmonkey/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveCreature(ctx context.Context, creature model.Creature) error {
	if err := validateID(creature.ID); err != nil {
		return err
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeCreature(creature)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO creatures (id, schema_version, codec_version, generation, rarity_score, updated_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			generation = excluded.generation,
			rarity_score = excluded.rarity_score,
			updated_at = excluded.updated_at,
			payload = excluded.payload
	`,
		creature.ID,
		creature.SchemaVersion,
		creature.CodecVersion,
		creature.Stats.GenerationOrDefault(),
		creature.Stats.RarityScoreOrDefault(),
		formatTimestamp(creature.UpdatedAt),
		payload,
	)
	return err
}

func (s *SQLiteStore) GetCreature(ctx context.Context, id string) (model.Creature, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.Creature{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM creatures WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Creature{}, false, nil
		}
		return model.Creature{}, false, err
	}

	creature, err := DecodeCreature(payload)
	if err != nil {
		return model.Creature{}, false, fmt.Errorf("decode creature %s: %w", id, err)
	}
	return creature, true, nil
}

func (s *SQLiteStore) ListCreatures(ctx context.Context) ([]model.Creature, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id, payload FROM creatures ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Creature
	for rows.Next() {
		var (
			id      string
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		creature, err := DecodeCreature(payload)
		if err != nil {
			return nil, fmt.Errorf("decode creature %s: %w", id, err)
		}
		out = append(out, creature)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveAchievements(ctx context.Context, record model.AchievementsRecord) error {
	if err := validateID(record.CreatureID); err != nil {
		return err
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeAchievements(record)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO achievements (creature_id, updated_at, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(creature_id) DO UPDATE SET
			updated_at = excluded.updated_at,
			payload = excluded.payload
	`, record.CreatureID, formatTimestamp(record.UpdatedAt), payload)
	return err
}

func (s *SQLiteStore) GetAchievements(ctx context.Context, creatureID string) (model.AchievementsRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.AchievementsRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM achievements WHERE creature_id = ?`, creatureID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.AchievementsRecord{}, false, nil
		}
		return model.AchievementsRecord{}, false, err
	}

	record, err := DecodeAchievements(payload)
	if err != nil {
		return model.AchievementsRecord{}, false, fmt.Errorf("decode achievements %s: %w", creatureID, err)
	}
	return record, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS creatures (
			id TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			generation INTEGER NOT NULL,
			rarity_score REAL NOT NULL,
			updated_at TEXT NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS creatures_rarity_score ON creatures (rarity_score DESC);
		CREATE TABLE IF NOT EXISTS achievements (
			creature_id TEXT PRIMARY KEY,
			updated_at TEXT NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}

// Timestamps are stored as fixed-width UTC text so they sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
