// Package selfplay runs batches of seeded episodes between agents, one
// engine per episode.
package selfplay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/peterkuimelis/evosplendor/internal/agent"
	"github.com/peterkuimelis/evosplendor/internal/game"
	"github.com/peterkuimelis/evosplendor/internal/log"
)

// DefaultMaxSteps is the per-episode step ceiling used when none is set.
const DefaultMaxSteps = 200

var ErrNoEpisodes = errors.New("no episodes requested")

// Options configures a batch.
type Options struct {
	Catalog  game.Catalog
	Players  int
	Episodes int
	Seed     uint64   // episode i is reset with Seed+i
	Workers  int      // concurrent episodes; <1 means 1
	MaxSteps int      // per episode; <1 means DefaultMaxSteps
	Agents   []string // policy per seat, cycled; empty means greedy for all

	Logger    zerolog.Logger // process log
	LogEvents bool           // forward engine events to Logger at debug level
}

// EpisodeResult summarizes one finished or truncated episode.
type EpisodeResult struct {
	Episode  int
	Seed     uint64
	Players  int
	Steps    int
	Rejected int
	Turns    int
	Done     bool
	Rewards  []int // trophies so far when truncated
	Ranking  []game.RankEntry
	Winner   int // -1 when truncated
	Duration time.Duration
}

// Run plays opts.Episodes episodes across opts.Workers goroutines. Results
// are ordered by episode regardless of scheduling. The first error cancels
// the remaining episodes.
func Run(ctx context.Context, opts Options) ([]EpisodeResult, error) {
	if opts.Episodes < 1 {
		return nil, ErrNoEpisodes
	}
	workers := max(opts.Workers, 1)
	results := make([]EpisodeResult, opts.Episodes)

	opts.Logger.Info().Msgf("starting %d episodes with %d players on %d workers", opts.Episodes, opts.Players, workers)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < opts.Episodes; i++ {
		g.Go(func() error {
			seed := opts.Seed + uint64(i)
			agents, err := seatAgents(opts.Agents, opts.Players, seed)
			if err != nil {
				return err
			}
			var events log.EventLogger
			if opts.LogEvents {
				events = log.NewZerologLogger(opts.Logger.With().Int("episode", i).Logger(), zerolog.DebugLevel)
			}

			res, err := RunEpisode(ctx, opts.Catalog, EpisodeConfig{
				Players:  opts.Players,
				Seed:     seed,
				MaxSteps: opts.MaxSteps,
				Agents:   agents,
				Logger:   events,
			})
			if err != nil {
				return fmt.Errorf("episode %d: %w", i, err)
			}
			res.Episode = i
			results[i] = res

			opts.Logger.Debug().
				Int("episode", i).
				Int("steps", res.Steps).
				Bool("done", res.Done).
				Int("winner", res.Winner).
				Msg("episode complete")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	opts.Logger.Info().Msgf("completed %d episodes", opts.Episodes)
	return results, nil
}

// seatAgents builds fresh policies for one episode.
func seatAgents(names []string, players int, seed uint64) ([]agent.Agent, error) {
	if len(names) == 0 {
		names = []string{"greedy"}
	}
	agents := make([]agent.Agent, players)
	for seat := range agents {
		a, err := agent.New(names[seat%len(names)], seed*31+uint64(seat))
		if err != nil {
			return nil, err
		}
		agents[seat] = a
	}
	return agents, nil
}

// EpisodeConfig describes a single episode.
type EpisodeConfig struct {
	Players  int
	Seed     uint64
	MaxSteps int
	Agents   []agent.Agent // one per seat
	Logger   log.EventLogger
}

// RunEpisode resets a fresh engine with cfg.Seed and lets the seat agents
// play until the episode ends or the step ceiling is reached.
func RunEpisode(ctx context.Context, catalog game.Catalog, cfg EpisodeConfig) (EpisodeResult, error) {
	if len(cfg.Agents) != cfg.Players {
		return EpisodeResult{}, fmt.Errorf("need %d agents, got %d", cfg.Players, len(cfg.Agents))
	}
	maxSteps := cfg.MaxSteps
	if maxSteps < 1 {
		maxSteps = DefaultMaxSteps
	}

	env, err := game.NewEnv(catalog, game.Config{Players: cfg.Players, Logger: cfg.Logger})
	if err != nil {
		return EpisodeResult{}, err
	}
	start := time.Now()
	gs := env.ResetSeed(cfg.Seed)

	res := EpisodeResult{Seed: cfg.Seed, Players: cfg.Players, Winner: -1}
	last := game.StepResult{State: gs, Rewards: make([]int, cfg.Players)}
	for res.Steps < maxSteps && !env.Done() {
		if err := ctx.Err(); err != nil {
			return EpisodeResult{}, err
		}
		seat := last.State.CurrentPlayer
		step, err := agent.Turn(ctx, env, cfg.Agents[seat])
		if err != nil {
			return EpisodeResult{}, err
		}
		if !step.Info.Applied {
			res.Rejected++
		}
		last = step
		res.Steps++
	}

	res.Turns = last.State.Turn
	res.Done = last.Done
	res.Rewards = last.Rewards
	if res.Done {
		res.Ranking = env.Ranking()
		res.Winner = res.Ranking[0].PlayerIndex
	} else {
		res.Rewards = currentTrophies(last.State)
	}
	res.Duration = time.Since(start)
	return res, nil
}

func currentTrophies(gs *game.GameState) []int {
	out := make([]int, len(gs.Players))
	for i, p := range gs.Players {
		out[i] = game.TotalTrophies(p)
	}
	return out
}
