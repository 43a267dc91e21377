package storage

import (
	"encoding/json"
	"errors"

	"forkmonkey/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// Versioned is the header stamped on every new record.
func Versioned() model.VersionedRecord {
	return model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func EncodeCreature(c model.Creature) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

func DecodeCreature(data []byte) (model.Creature, error) {
	var creature model.Creature
	if err := json.Unmarshal(data, &creature); err != nil {
		return model.Creature{}, err
	}
	if err := checkVersion(creature.VersionedRecord); err != nil {
		return model.Creature{}, err
	}
	return creature, nil
}

func EncodeAchievements(r model.AchievementsRecord) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func DecodeAchievements(data []byte) (model.AchievementsRecord, error) {
	var record model.AchievementsRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.AchievementsRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.AchievementsRecord{}, err
	}
	if record.Unlocked == nil {
		record.Unlocked = []model.Unlocked{}
	}
	return record, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
