package model

import (
	"fmt"
	"strings"
)

// Rarity orders trait options from least to most rare.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	Legendary
)

var rarityNames = [...]string{"common", "uncommon", "rare", "legendary"}

func (r Rarity) String() string {
	if r < Common || r > Legendary {
		return fmt.Sprintf("rarity(%d)", int(r))
	}
	return rarityNames[r]
}

// ParseRarity accepts tier names case-insensitively.
func ParseRarity(s string) (Rarity, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, candidate := range rarityNames {
		if candidate == name {
			return Rarity(i), nil
		}
	}
	return Common, fmt.Errorf("unknown rarity: %q", s)
}

func (r Rarity) MarshalText() ([]byte, error) {
	if r < Common || r > Legendary {
		return nil, fmt.Errorf("invalid rarity: %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Rarity) UnmarshalText(data []byte) error {
	parsed, err := ParseRarity(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
