package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"forkmonkey/internal/model"
)

const (
	creaturesDir    = "creatures"
	achievementsDir = "achievements"
)

// FileStore keeps one indented JSON document per record under a data
// directory. Writes go through a temp file and rename, so the last writer
// wins and readers never observe a partial record.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Init(_ context.Context) error {
	if s.dir == "" {
		return errors.New("data directory is required")
	}
	for _, sub := range []string{creaturesDir, achievementsDir} {
		if err := os.MkdirAll(filepath.Join(s.dir, sub), 0o755); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore) SaveCreature(_ context.Context, creature model.Creature) error {
	if err := validateID(creature.ID); err != nil {
		return err
	}
	data, err := EncodeCreature(creature)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.recordPath(creaturesDir, creature.ID), data)
}

func (s *FileStore) GetCreature(_ context.Context, id string) (model.Creature, bool, error) {
	if err := validateID(id); err != nil {
		return model.Creature{}, false, err
	}
	data, ok, err := readIfExists(s.recordPath(creaturesDir, id))
	if err != nil || !ok {
		return model.Creature{}, false, err
	}
	creature, err := DecodeCreature(data)
	if err != nil {
		return model.Creature{}, false, fmt.Errorf("decode creature %s: %w", id, err)
	}
	return creature, true, nil
}

func (s *FileStore) ListCreatures(ctx context.Context) ([]model.Creature, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, creaturesDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var out []model.Creature
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		creature, ok, err := s.GetCreature(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, creature)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *FileStore) SaveAchievements(_ context.Context, record model.AchievementsRecord) error {
	if err := validateID(record.CreatureID); err != nil {
		return err
	}
	data, err := EncodeAchievements(record)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.recordPath(achievementsDir, record.CreatureID), data)
}

func (s *FileStore) GetAchievements(_ context.Context, creatureID string) (model.AchievementsRecord, bool, error) {
	if err := validateID(creatureID); err != nil {
		return model.AchievementsRecord{}, false, err
	}
	data, ok, err := readIfExists(s.recordPath(achievementsDir, creatureID))
	if err != nil || !ok {
		return model.AchievementsRecord{}, false, err
	}
	record, err := DecodeAchievements(data)
	if err != nil {
		return model.AchievementsRecord{}, false, fmt.Errorf("decode achievements %s: %w", creatureID, err)
	}
	return record, true, nil
}

func (s *FileStore) recordPath(kind, id string) string {
	return filepath.Join(s.dir, kind, id+".json")
}

func readIfExists(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func validateID(id string) error {
	if id == "" {
		return errors.New("record id is required")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("invalid record id: %q", id)
	}
	return nil
}
