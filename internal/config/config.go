// Package config resolves runtime settings for the binaries: built-in
// defaults, then a .env file, then EVOSPLENDOR_* environment variables,
// then command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/peterkuimelis/evosplendor/internal/game"
)

// EnvPrefix prefixes every environment key.
const EnvPrefix = "EVOSPLENDOR_"

// Config holds everything the binaries need.
type Config struct {
	Catalog  string // catalog file; empty uses the built-in catalog
	Players  int
	Seed     uint64
	Episodes int
	Workers  int
	MaxSteps int
	Agents   string // comma separated policy names, one per seat, cycled
	LogLevel string
	Results  string // CSV output path; empty disables
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Players:  2,
		Seed:     1,
		Episodes: 100,
		Workers:  runtime.NumCPU(),
		MaxSteps: 200,
		Agents:   "greedy",
		LogLevel: "info",
	}
}

// Load resolves settings. envFile may be empty or missing; flags are
// registered on fset and parsed from args last.
func Load(fset *flag.FlagSet, args []string, envFile string) (Config, error) {
	cfg := Default()

	dotenv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read %s: %w", envFile, err)
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			return v, true
		}
		v, ok := dotenv[EnvPrefix+key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}

	cfg.RegisterFlags(fset)
	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"CATALOG":   &c.Catalog,
		"AGENTS":    &c.Agents,
		"LOG_LEVEL": &c.LogLevel,
		"RESULTS":   &c.Results,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	ints := map[string]*int{
		"PLAYERS":   &c.Players,
		"EPISODES":  &c.Episodes,
		"WORKERS":   &c.Workers,
		"MAX_STEPS": &c.MaxSteps,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
	}

	if v, ok := lookup("SEED"); ok {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED: %w", EnvPrefix, err)
		}
		c.Seed = n
	}
	return nil
}

// RegisterFlags binds every field to fset, using the current values as defaults.
func (c *Config) RegisterFlags(fset *flag.FlagSet) {
	fset.StringVar(&c.Catalog, "catalog", c.Catalog, "card catalog file (.yaml/.yml/.json); empty uses the built-in catalog")
	fset.IntVar(&c.Players, "players", c.Players, "number of seats")
	fset.Uint64Var(&c.Seed, "seed", c.Seed, "episode seed (bench: seed of the first episode)")
	fset.IntVar(&c.Episodes, "episodes", c.Episodes, "number of episodes to run")
	fset.IntVar(&c.Workers, "workers", c.Workers, "episodes run in parallel")
	fset.IntVar(&c.MaxSteps, "max-steps", c.MaxSteps, "step ceiling per episode")
	fset.StringVar(&c.Agents, "agents", c.Agents, "comma separated policies per seat (greedy, random)")
	fset.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fset.StringVar(&c.Results, "results", c.Results, "write per-episode results to this CSV file")
}

// Validate checks ranges.
func (c Config) Validate() error {
	switch {
	case c.Players < 2:
		return fmt.Errorf("players must be at least 2, got %d", c.Players)
	case c.Episodes < 1:
		return fmt.Errorf("episodes must be at least 1, got %d", c.Episodes)
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	case c.MaxSteps < 1:
		return fmt.Errorf("max-steps must be at least 1, got %d", c.MaxSteps)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

// AgentNames splits Agents into policy names.
func (c Config) AgentNames() []string {
	var names []string
	for _, name := range strings.Split(c.Agents, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// LoadCatalog reads the configured catalog, or the built-in one.
func (c Config) LoadCatalog() (game.Catalog, error) {
	if c.Catalog == "" {
		return game.DefaultCatalog()
	}
	cat, err := game.LoadCatalogFile(c.Catalog)
	if err != nil {
		return game.Catalog{}, fmt.Errorf("load catalog %s: %w", c.Catalog, err)
	}
	return cat, nil
}
