// Package agent holds simple policies that play through the engine's
// observation and legal-action interface.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/peterkuimelis/evosplendor/internal/game"
)

// ErrNoActions is returned when a policy is asked to choose from nothing.
var ErrNoActions = errors.New("no legal actions")

// Agent picks one of the legal actions for the seat described by obs.
type Agent interface {
	ChooseAction(ctx context.Context, obs game.Observation, actions []game.Action) (game.Action, error)
}

// Func adapts a plain function to Agent.
type Func func(ctx context.Context, obs game.Observation, actions []game.Action) (game.Action, error)

func (f Func) ChooseAction(ctx context.Context, obs game.Observation, actions []game.Action) (game.Action, error) {
	return f(ctx, obs, actions)
}

// New returns a policy by name: "greedy" or "random".
func New(name string, seed uint64) (Agent, error) {
	switch name {
	case "greedy", "":
		return Greedy{}, nil
	case "random":
		return NewRandom(seed), nil
	default:
		return nil, fmt.Errorf("unknown agent %q", name)
	}
}

// Turn asks a for the active seat's move in env and applies it.
func Turn(ctx context.Context, env *game.Env, a Agent) (game.StepResult, error) {
	gs, err := env.State()
	if err != nil {
		return game.StepResult{}, err
	}
	obs, err := env.Observe(gs.CurrentPlayer)
	if err != nil {
		return game.StepResult{}, err
	}
	action, err := a.ChooseAction(ctx, obs, env.LegalActions())
	if err != nil {
		return game.StepResult{}, fmt.Errorf("seat %d: %w", gs.CurrentPlayer, err)
	}
	return env.Step(action)
}
