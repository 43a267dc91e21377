package model

import (
	"errors"
	"fmt"
	"time"
)

// Defaults applied when a Stats field is absent.
const (
	DefaultAgeDays        = 0
	DefaultGeneration     = 1
	DefaultTotalMutations = 0
	DefaultChildrenCount  = 0
	DefaultRarityScore    = 0.0
	UnrankedLeaderboard   = 999
)

// Stats is the externally maintained bookkeeping for one creature. Every
// field is optional; read it through the accessors below.
type Stats struct {
	CreatedAt       string   `json:"created_at,omitempty"`
	AgeDays         *int     `json:"age_days,omitempty"`
	Generation      *int     `json:"generation,omitempty"`
	TotalMutations  *int     `json:"total_mutations,omitempty"`
	ChildrenCount   *int     `json:"children_count,omitempty"`
	RarityScore     *float64 `json:"rarity_score,omitempty"`
	LeaderboardRank *int     `json:"leaderboard_rank,omitempty"`
}

// Stat field names, matching the serialized keys.
const (
	FieldCreatedAt       = "created_at"
	FieldAgeDays         = "age_days"
	FieldGeneration      = "generation"
	FieldTotalMutations  = "total_mutations"
	FieldChildrenCount   = "children_count"
	FieldRarityScore     = "rarity_score"
	FieldLeaderboardRank = "leaderboard_rank"
)

func (s Stats) HasCreatedAt() bool { return s.CreatedAt != "" }

func (s Stats) AgeDaysOrDefault() int {
	return intOr(s.AgeDays, DefaultAgeDays)
}

func (s Stats) GenerationOrDefault() int {
	return intOr(s.Generation, DefaultGeneration)
}

func (s Stats) TotalMutationsOrDefault() int {
	return intOr(s.TotalMutations, DefaultTotalMutations)
}

func (s Stats) ChildrenCountOrDefault() int {
	return intOr(s.ChildrenCount, DefaultChildrenCount)
}

func (s Stats) RarityScoreOrDefault() float64 {
	if s.RarityScore == nil {
		return DefaultRarityScore
	}
	return *s.RarityScore
}

func (s Stats) LeaderboardRankOrDefault() int {
	return intOr(s.LeaderboardRank, UnrankedLeaderboard)
}

// Numeric returns the numeric value of a named field with its default
// applied. ok is false only for names that are not numeric fields.
func (s Stats) Numeric(field string) (value float64, ok bool) {
	switch field {
	case FieldAgeDays:
		return float64(s.AgeDaysOrDefault()), true
	case FieldGeneration:
		return float64(s.GenerationOrDefault()), true
	case FieldTotalMutations:
		return float64(s.TotalMutationsOrDefault()), true
	case FieldChildrenCount:
		return float64(s.ChildrenCountOrDefault()), true
	case FieldRarityScore:
		return s.RarityScoreOrDefault(), true
	case FieldLeaderboardRank:
		return float64(s.LeaderboardRankOrDefault()), true
	default:
		return 0, false
	}
}

// CreatedTime parses CreatedAt as RFC 3339 or a bare date.
func (s Stats) CreatedTime() (time.Time, error) {
	if !s.HasCreatedAt() {
		return time.Time{}, errors.New("created_at is not set")
	}
	if t, err := time.Parse(time.RFC3339, s.CreatedAt); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s.CreatedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", s.CreatedAt, err)
	}
	return t, nil
}

func (s Stats) Clone() Stats {
	out := s
	out.AgeDays = cloneInt(s.AgeDays)
	out.Generation = cloneInt(s.Generation)
	out.TotalMutations = cloneInt(s.TotalMutations)
	out.ChildrenCount = cloneInt(s.ChildrenCount)
	out.LeaderboardRank = cloneInt(s.LeaderboardRank)
	if s.RarityScore != nil {
		v := *s.RarityScore
		out.RarityScore = &v
	}
	return out
}

// Int returns a pointer to v, for filling optional Stats fields.
func Int(v int) *int { return &v }

// Float returns a pointer to v, for filling optional Stats fields.
func Float(v float64) *float64 { return &v }

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
