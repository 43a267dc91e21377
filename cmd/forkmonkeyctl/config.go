package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"forkmonkey/internal/genetics"
	"forkmonkey/internal/storage"
)

const (
	defaultConfigPath = "forkmonkey.yaml"
	envPrefix         = "FORKMONKEY_"
)

// Config holds the settings shared by every command. Values come from the
// YAML file, then FORKMONKEY_* environment variables, then command flags.
type Config struct {
	Store             string  `yaml:"store" env:"STORE"`
	DBPath            string  `yaml:"db_path" env:"DB_PATH"`
	DataDir           string  `yaml:"data_dir" env:"DATA_DIR"`
	Seed              int64   `yaml:"seed" env:"SEED"`
	MutationRate      float64 `yaml:"mutation_rate" env:"MUTATION_RATE"`
	EvolutionStrength float64 `yaml:"evolution_strength" env:"EVOLUTION_STRENGTH"`
	RarityMatch       string  `yaml:"rarity_match" env:"RARITY_MATCH"`
	LogLevel          string  `yaml:"log_level" env:"LOG_LEVEL"`
}

// loadConfig reads path and overlays the environment. An empty path reads
// forkmonkey.yaml when present. A nil environ reads the process environment.
func loadConfig(path string, environ map[string]string) (Config, error) {
	cfg := Config{
		MutationRate:      genetics.DefaultMutationRate,
		EvolutionStrength: genetics.DefaultEvolutionStrength,
		LogLevel:          "info",
	}

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix, Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

type commonFlags struct {
	fs                *flag.FlagSet
	configPath        *string
	store             *string
	dbPath            *string
	dataDir           *string
	seed              *int64
	mutationRate      *float64
	evolutionStrength *float64
	rarityMatch       *string
	logLevel          *string
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		fs:                fs,
		configPath:        fs.String("config", "", "config file (default forkmonkey.yaml when present)"),
		store:             fs.String("store", storage.DefaultStoreKind(), "store backend: memory|file|sqlite"),
		dbPath:            fs.String("db-path", "forkmonkey.db", "sqlite database path"),
		dataDir:           fs.String("data-dir", "monkey_data", "file store directory"),
		seed:              fs.Int64("seed", 0, "random seed (0 seeds from the clock)"),
		mutationRate:      fs.Float64("mutation-rate", genetics.DefaultMutationRate, "per-trait mutation probability when breeding"),
		evolutionStrength: fs.Float64("evolution-strength", genetics.DefaultEvolutionStrength, "per-trait change probability when evolving"),
		rarityMatch:       fs.String("rarity-match", "exact", "rarity achievement matching: exact|at_least"),
		logLevel:          fs.String("log-level", "info", "log level: debug|info|warn|error"),
	}
}

// resolve loads file and environment settings, then applies only the flags
// given on the command line.
func (f *commonFlags) resolve(environ map[string]string) (Config, error) {
	cfg, err := loadConfig(*f.configPath, environ)
	if err != nil {
		return Config{}, err
	}
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "store":
			cfg.Store = *f.store
		case "db-path":
			cfg.DBPath = *f.dbPath
		case "data-dir":
			cfg.DataDir = *f.dataDir
		case "seed":
			cfg.Seed = *f.seed
		case "mutation-rate":
			cfg.MutationRate = *f.mutationRate
		case "evolution-strength":
			cfg.EvolutionStrength = *f.evolutionStrength
		case "rarity-match":
			cfg.RarityMatch = *f.rarityMatch
		case "log-level":
			cfg.LogLevel = *f.logLevel
		}
	})
	return cfg, nil
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if level = strings.TrimSpace(level); level == "" {
		level = "info"
	}
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
