package genetics

import (
	"errors"
	"fmt"

	"forkmonkey/internal/model"
)

// Option is one selectable value of a trait category.
type Option struct {
	Name   string
	Rarity model.Rarity
	Weight float64
	// MinGeneration gates the option out of draws below this generation.
	// Zero means always eligible.
	MinGeneration int
}

func (o Option) eligible(generation int) bool {
	return o.MinGeneration <= generation
}

type Category struct {
	Name    string
	Options []Option
}

// Eligible returns the options selectable at generation, in catalog order.
func (c Category) Eligible(generation int) []Option {
	out := make([]Option, 0, len(c.Options))
	for _, opt := range c.Options {
		if opt.eligible(generation) {
			out = append(out, opt)
		}
	}
	return out
}

func (c Category) Lookup(name string) (Option, bool) {
	for _, opt := range c.Options {
		if opt.Name == name {
			return opt, true
		}
	}
	return Option{}, false
}

// Catalog is the ordered, immutable set of trait categories.
type Catalog struct {
	categories []Category
	index      map[string]int
}

// NewCatalog validates and indexes categories. Category names must be unique
// and non-empty, option names unique within their category, and weights
// positive.
func NewCatalog(categories []Category) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, errors.New("catalog requires at least one category")
	}
	c := &Catalog{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
	}
	for _, cat := range categories {
		if cat.Name == "" {
			return nil, errors.New("category name is required")
		}
		if cat.Name == model.GenerationKey {
			return nil, fmt.Errorf("category name %q is reserved", cat.Name)
		}
		if _, exists := c.index[cat.Name]; exists {
			return nil, fmt.Errorf("duplicate category: %s", cat.Name)
		}
		seen := make(map[string]struct{}, len(cat.Options))
		for _, opt := range cat.Options {
			if opt.Name == "" {
				return nil, fmt.Errorf("category %s: option name is required", cat.Name)
			}
			if _, dup := seen[opt.Name]; dup {
				return nil, fmt.Errorf("category %s: duplicate option %s", cat.Name, opt.Name)
			}
			if opt.Weight <= 0 {
				return nil, fmt.Errorf("category %s: option %s weight must be > 0", cat.Name, opt.Name)
			}
			seen[opt.Name] = struct{}{}
		}
		copied := Category{Name: cat.Name, Options: append([]Option(nil), cat.Options...)}
		c.index[cat.Name] = len(c.categories)
		c.categories = append(c.categories, copied)
	}
	return c, nil
}

// MustCatalog is NewCatalog for static tables.
func MustCatalog(categories []Category) *Catalog {
	c, err := NewCatalog(categories)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.categories))
	for _, cat := range c.categories {
		out = append(out, cat.Name)
	}
	return out
}

func (c *Catalog) Category(name string) (Category, bool) {
	idx, ok := c.index[name]
	if !ok {
		return Category{}, false
	}
	return c.categories[idx], true
}

func (c *Catalog) Len() int { return len(c.categories) }

// RarityOf resolves the tier of an option by category and name. Unknown
// categories or options report ok=false.
func (c *Catalog) RarityOf(category, option string) (model.Rarity, bool) {
	cat, ok := c.Category(category)
	if !ok {
		return model.Common, false
	}
	opt, ok := cat.Lookup(option)
	if !ok {
		return model.Common, false
	}
	return opt.Rarity, true
}
