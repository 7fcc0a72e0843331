package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/peterkuimelis/evosplendor/internal/agent"
	"github.com/peterkuimelis/evosplendor/internal/config"
	"github.com/peterkuimelis/evosplendor/internal/game"
	"github.com/peterkuimelis/evosplendor/internal/log"
	"github.com/peterkuimelis/evosplendor/internal/selfplay"
	"github.com/peterkuimelis/evosplendor/internal/view"
)

const envFile = ".env"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "play":
		err = runPlay(ctx, os.Args[2:])
	case "bench":
		err = runBench(ctx, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  evosplendor play  [--seed N] [--players N] [--agents LIST] [--human SEAT]")
	fmt.Println("  evosplendor bench [--episodes N] [--workers N] [--results FILE] [--events]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  play    Play one seeded game, printing every event; --human takes a seat")
	fmt.Println("  bench   Run many self-play episodes in parallel and summarize them")
	fmt.Println()
	fmt.Println("Settings also come from .env and EVOSPLENDOR_* variables.")
}

func newLogger(cfg config.Config) (zerolog.Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger(), nil
}

func runPlay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	human := fs.Int("human", -1, "seat played from the terminal, -1 for none")
	cfg, err := config.Load(fs, args, envFile)
	if err != nil {
		return err
	}
	if *human < -1 || *human >= cfg.Players {
		return fmt.Errorf("human seat must be -1 or 0-%d", cfg.Players-1)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	cat, err := cfg.LoadCatalog()
	if err != nil {
		return err
	}

	env, err := game.NewEnv(cat, game.Config{Players: cfg.Players, Logger: log.NewTextLogger(os.Stdout)})
	if err != nil {
		return err
	}
	names := cfg.AgentNames()
	if len(names) == 0 {
		names = []string{"greedy"}
	}
	agents := make([]agent.Agent, cfg.Players)
	for seat := range agents {
		if seat == *human {
			continue
		}
		if agents[seat], err = agent.New(names[seat%len(names)], cfg.Seed*31+uint64(seat)); err != nil {
			return err
		}
	}

	logger.Info().Uint64("seed", cfg.Seed).Int("players", cfg.Players).Msg("starting game")
	env.ResetSeed(cfg.Seed)
	reader := bufio.NewReader(os.Stdin)

	for steps := 0; !env.Done(); steps++ {
		if *human < 0 && steps >= cfg.MaxSteps {
			logger.Warn().Int("steps", steps).Msg("step limit reached")
			break
		}
		gs, err := env.State()
		if err != nil {
			return err
		}
		if gs.CurrentPlayer != *human {
			if _, err := agent.Turn(ctx, env, agents[gs.CurrentPlayer]); err != nil {
				return err
			}
			continue
		}

		legal := env.LegalActions()
		view.RenderState(os.Stdout, view.BuildStateView(gs, *human))
		view.RenderActions(os.Stdout, view.ActionViews(legal))
		action, err := readAction(reader, legal)
		if err != nil {
			return err
		}
		res, err := env.Step(action)
		if err != nil {
			return err
		}
		if !res.Info.Applied {
			fmt.Printf("Rejected: %s\n", res.Info.Reason)
		}
	}

	if env.Done() {
		fmt.Println("\nFinal ranking:")
		for place, r := range env.Ranking() {
			fmt.Printf("  %d. P%d  %d trophies  %d penalty\n", place+1, r.PlayerIndex+1, r.Trophies, r.Penalty)
		}
	}
	return nil
}

// readAction prompts until the line names an action. Numbers are the 1-based
// entries printed by RenderActions.
func readAction(reader *bufio.Reader, legal []game.Action) (game.Action, error) {
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" && err != nil {
			if errors.Is(err, io.EOF) {
				return game.Action{}, errors.New("input closed")
			}
			return game.Action{}, err
		}
		if line == "" {
			continue
		}
		if n, convErr := strconv.Atoi(line); convErr == nil {
			line = strconv.Itoa(n - 1)
		}
		action, err := view.MatchAction(line, legal)
		if err != nil {
			fmt.Println(err)
			continue
		}
		return action, nil
	}
}

func runBench(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	events := fs.Bool("events", false, "log every engine event at debug level")
	cfg, err := config.Load(fs, args, envFile)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	cat, err := cfg.LoadCatalog()
	if err != nil {
		return err
	}

	results, err := selfplay.Run(ctx, selfplay.Options{
		Catalog:   cat,
		Players:   cfg.Players,
		Episodes:  cfg.Episodes,
		Seed:      cfg.Seed,
		Workers:   cfg.Workers,
		MaxSteps:  cfg.MaxSteps,
		Agents:    cfg.AgentNames(),
		Logger:    logger,
		LogEvents: *events,
	})
	if err != nil {
		return err
	}
	fmt.Print(selfplay.Summarize(results))

	if cfg.Results != "" {
		if err := selfplay.WriteCSVFile(cfg.Results, results); err != nil {
			return err
		}
		logger.Info().Str("path", cfg.Results).Msg("wrote results")
	}
	return nil
}
