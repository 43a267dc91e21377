// Package report renders achievements and creatures as Markdown-flavoured
// text for a README or a terminal.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"forkmonkey/internal/achievements"
	"forkmonkey/internal/genetics"
	"forkmonkey/internal/model"
)

const emptyAchievements = "No achievements unlocked yet! Keep evolving! 🐵"

var titleCaser = cases.Title(language.English)

// Achievements renders the unlocked list grouped by category, one line of
// icons per category, followed by the unlocked fraction of total.
func Achievements(unlocked []model.Unlocked, total int) string {
	if len(unlocked) == 0 {
		return emptyAchievements
	}

	lines := []string{"### 🏆 Achievements", ""}
	groups := groupByCategory(unlocked)
	for _, g := range groups {
		icons := make([]string, 0, len(g.items))
		for _, a := range g.items {
			icons = append(icons, a.Icon)
		}
		lines = append(lines, fmt.Sprintf("**%s**: %s", titleCaser.String(g.category), strings.Join(icons, " ")))
	}
	lines = append(lines, "", fmt.Sprintf("*%d/%d unlocked*", len(unlocked), total))
	return strings.Join(lines, "\n")
}

// Progress renders a progress summary with per-achievement detail and the
// age of the stored record relative to now.
func Progress(p achievements.Progress, updatedAt, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 Achievements: %d/%d (%.1f%%)\n", p.UnlockedCount, p.TotalCount, p.Percentage)
	for _, category := range p.Categories {
		fmt.Fprintf(&b, "\n%s\n", titleCaser.String(category))
		for _, a := range p.ByCategory[category] {
			fmt.Fprintf(&b, "  %s %s: %s\n", a.Icon, a.Title, a.Description)
		}
	}
	if !updatedAt.IsZero() {
		fmt.Fprintf(&b, "\nupdated %s\n", humanize.RelTime(updatedAt, now, "ago", "from now"))
	}
	return b.String()
}

// Creature renders the creature's traits with their rarity tiers and its
// headline statistics.
func Creature(c model.Creature, catalog *genetics.Catalog) string {
	if catalog == nil {
		catalog = genetics.DefaultCatalog
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🐵 %s (%s generation)\n", c.ID, humanize.Ordinal(c.Stats.GenerationOrDefault()))
	for _, name := range catalog.Names() {
		value := c.DNA.Get(name)
		tier := "unknown"
		if r, ok := catalog.RarityOf(name, value); ok {
			tier = r.String()
		}
		fmt.Fprintf(&b, "  %-16s %-18s %s\n", name, value, tier)
	}
	fmt.Fprintf(&b, "rarity score: %.1f\n", c.Stats.RarityScoreOrDefault())
	fmt.Fprintf(&b, "age: %s\n", pluralDays(c.Stats.AgeDaysOrDefault()))
	fmt.Fprintf(&b, "mutations: %s\n", humanize.Comma(int64(c.Stats.TotalMutationsOrDefault())))
	fmt.Fprintf(&b, "children: %s\n", humanize.Comma(int64(c.Stats.ChildrenCountOrDefault())))
	if rank := c.Stats.LeaderboardRankOrDefault(); rank != model.UnrankedLeaderboard {
		fmt.Fprintf(&b, "leaderboard: #%d\n", rank)
	} else {
		b.WriteString("leaderboard: unranked\n")
	}
	return b.String()
}

type categoryGroup struct {
	category string
	items    []model.Unlocked
}

func groupByCategory(unlocked []model.Unlocked) []categoryGroup {
	var groups []categoryGroup
	index := make(map[string]int)
	for _, a := range unlocked {
		category := a.Category
		if category == "" {
			category = "other"
		}
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, categoryGroup{category: category})
		}
		groups[i].items = append(groups[i].items, a)
	}
	return groups
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
