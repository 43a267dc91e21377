package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// DNARecord is the flat serialized form of a trait set: category name to
// selected option name, plus the reserved GenerationKey.
type DNARecord map[string]string

// GenerationKey is the reserved DNARecord key carrying the DNA generation.
const GenerationKey = "generation"

// Get returns the option name stored for category, or NoneTrait when absent.
func (r DNARecord) Get(category string) string {
	if v, ok := r[category]; ok && v != "" {
		return v
	}
	return NoneTrait
}

// NoneTrait marks an unfilled optional trait slot.
const NoneTrait = "None"

// Unlocked is the projection of an achievement definition produced by
// evaluation. It is also the persisted shape.
type Unlocked struct {
	Key         string `json:"key"`
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type Creature struct {
	VersionedRecord
	ID        string    `json:"id"`
	ParentIDs []string  `json:"parent_ids,omitempty"`
	DNA       DNARecord `json:"dna"`
	Stats     Stats     `json:"stats"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AchievementsRecord struct {
	VersionedRecord
	CreatureID string     `json:"creature_id"`
	Unlocked   []Unlocked `json:"unlocked"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
