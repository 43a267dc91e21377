package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"forkmonkey/internal/report"
	"forkmonkey/internal/storage"
	"forkmonkey/pkg/forkmonkey"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "hatch":
		return runHatch(ctx, args[1:])
	case "evolve":
		return runEvolve(ctx, args[1:])
	case "breed":
		return runBreed(ctx, args[1:])
	case "rank":
		return runRank(ctx, args[1:])
	case "achievements":
		return runAchievements(ctx, args[1:])
	case "show":
		return runShow(ctx, args[1:])
	case "list":
		return runList(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, cfg, err := openClient(ctx, common)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	fmt.Printf("initialized store=%s\n", storeName(cfg))
	return nil
}

func runHatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("hatch", flag.ContinueOnError)
	common := addCommonFlags(fs)
	id := fs.String("id", "", "creature id (generated when empty)")
	generation := fs.Int("generation", 1, "generation of the new creature")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, _, err := openClient(ctx, common)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	creature, err := client.Hatch(ctx, forkmonkey.HatchRequest{ID: *id, Generation: *generation})
	if err != nil {
		return err
	}
	fmt.Printf("hatched id=%s generation=%d rarity_score=%.1f\n",
		creature.ID,
		creature.Stats.GenerationOrDefault(),
		creature.Stats.RarityScoreOrDefault(),
	)
	return nil
}

func runEvolve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("evolve", flag.ContinueOnError)
	common := addCommonFlags(fs)
	id := fs.String("id", "", "creature id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("evolve requires --id")
	}

	client, _, err := openClient(ctx, common)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Evolve(ctx, *id)
	if err != nil {
		return err
	}
	stats := summary.Creature.Stats
	fmt.Printf("evolved id=%s mutated=%d total_mutations=%d age_days=%d rarity_score=%.1f\n",
		summary.Creature.ID,
		len(summary.Mutated),
		stats.TotalMutationsOrDefault(),
		stats.AgeDaysOrDefault(),
		stats.RarityScoreOrDefault(),
	)
	for _, category := range summary.Mutated {
		fmt.Printf("  %s -> %s\n", category, summary.Creature.DNA.Get(category))
	}
	return nil
}

func runBreed(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("breed", flag.ContinueOnError)
	common := addCommonFlags(fs)
	id := fs.String("id", "", "child id (generated when empty)")
	parentA := fs.String("parent-a", "", "first parent id")
	parentB := fs.String("parent-b", "", "second parent id (omit to fork a single parent)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *parentA == "" {
		return errors.New("breed requires --parent-a")
	}

	client, _, err := openClient(ctx, common)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	child, err := client.Breed(ctx, forkmonkey.BreedRequest{ID: *id, ParentA: *parentA, ParentB: *parentB})
	if err != nil {
		return err
	}
	fmt.Printf("bred id=%s parents=%s generation=%d rarity_score=%.1f\n",
		child.ID,
		strings.Join(child.ParentIDs, ","),
		child.Stats.GenerationOrDefault(),
		child.Stats.RarityScoreOrDefault(),
	)
	return nil
}

func runRank(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rank", flag.ContinueOnError)
	common := addCommonFlags(fs)
	limit := fs.Int("limit", 0, "max entries to print (0 prints all)")
	jsonOut := fs.Bool("json", false, "emit leaderboard as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit < 0 {
		return errors.New("limit must be >= 0")
	}

	client, _, err := openClient(ctx, common)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Rank(ctx)
	if err != nil {
		return err
	}
	if *limit > 0 && len(items) > *limit {
		items = items[:*limit]
	}
	if *jsonOut {
		type rankItem struct {
			Rank        int     `json:"rank"`
			CreatureID  string  `json:"creature_id"`
			RarityScore float64 `json:"rarity_score"`
		}
		out := make([]rankItem, 0, len(items))
		for _, item := range items {
			out = append(out, rankItem{Rank: item.Rank, CreatureID: item.CreatureID, RarityScore: item.RarityScore})
		}
		return writeJSON(out)
	}
	if len(items) == 0 {
		fmt.Println("no creatures found")
		return nil
	}
	for _, item := range items {
		fmt.Printf("rank=%d id=%s rarity_score=%.1f\n", item.Rank, item.CreatureID, item.RarityScore)
	}
	return nil
}

func runAchievements(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("achievements", flag.ContinueOnError)
	common := addCommonFlags(fs)
	id := fs.String("id", "", "creature id")
	markdown := fs.Bool("markdown", false, "print the README achievements section")
	jsonOut := fs.Bool("json", false, "emit progress as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("achievements requires --id")
	}
	if *markdown && *jsonOut {
		return errors.New("--markdown and --json are mutually exclusive")
	}

	client, _, err := openClient(ctx, common)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Achievements(ctx, *id)
	if err != nil {
		return err
	}
	switch {
	case *jsonOut:
		return writeJSON(summary.Progress)
	case *markdown:
		fmt.Println(report.Achievements(summary.Progress.Unlocked, summary.Progress.TotalCount))
	default:
		for _, a := range summary.Newly {
			fmt.Printf("unlocked key=%s title=%q\n", a.Key, a.Title)
		}
		fmt.Print(report.Progress(summary.Progress, summary.UpdatedAt, time.Now()))
	}
	return nil
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	common := addCommonFlags(fs)
	id := fs.String("id", "", "creature id")
	jsonOut := fs.Bool("json", false, "emit the stored record as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("show requires --id")
	}

	client, _, err := openClient(ctx, common)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	creature, err := client.Show(ctx, *id)
	if err != nil {
		return err
	}
	if *jsonOut {
		return writeJSON(creature)
	}
	fmt.Print(report.Creature(creature, client.Catalog()))
	return nil
}

func runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, _, err := openClient(ctx, common)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	creatures, err := client.List(ctx)
	if err != nil {
		return err
	}
	if len(creatures) == 0 {
		fmt.Println("no creatures found")
		return nil
	}
	for _, c := range creatures {
		fmt.Printf("id=%s generation=%d rarity_score=%.1f children=%d\n",
			c.ID,
			c.Stats.GenerationOrDefault(),
			c.Stats.RarityScoreOrDefault(),
			c.Stats.ChildrenCountOrDefault(),
		)
	}
	return nil
}

func openClient(ctx context.Context, common *commonFlags) (*forkmonkey.Client, Config, error) {
	cfg, err := common.resolve(nil)
	if err != nil {
		return nil, Config{}, err
	}
	logger, err := newLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		return nil, Config{}, err
	}
	client, err := forkmonkey.New(forkmonkey.Options{
		StoreKind:         cfg.Store,
		DataDir:           cfg.DataDir,
		DBPath:            cfg.DBPath,
		Seed:              cfg.Seed,
		MutationRate:      &cfg.MutationRate,
		EvolutionStrength: &cfg.EvolutionStrength,
		RarityMatch:       cfg.RarityMatch,
		Logger:            logger,
	})
	if err != nil {
		return nil, Config{}, err
	}
	if err := client.Init(ctx); err != nil {
		_ = client.Close()
		return nil, Config{}, err
	}
	return client, cfg, nil
}

func storeName(cfg Config) string {
	if cfg.Store == "" {
		return storage.DefaultStoreKind()
	}
	return cfg.Store
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: forkmonkeyctl <init|hatch|evolve|breed|rank|achievements|show|list> [flags]", msg)
}
