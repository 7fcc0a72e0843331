package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/peterkuimelis/evosplendor/internal/agent"
	"github.com/peterkuimelis/evosplendor/internal/game"
	"github.com/peterkuimelis/evosplendor/internal/log"
	"github.com/peterkuimelis/evosplendor/internal/view"
)

// AllSeats means the tool caller plays every seat.
const AllSeats = -1

// autoPlayLimit bounds how many opponent steps run between two caller moves.
const autoPlayLimit = 1000

var (
	ErrNoGame   = errors.New("no game is running; use start_game first")
	ErrGameOver = errors.New("the game is over; use start_game to play again")
)

// StepOutcome reports what happened to the caller's action.
type StepOutcome struct {
	Action  string `json:"action"`
	Applied bool   `json:"applied"`
	Invalid bool   `json:"invalid_action,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []view.EventView  `json:"events"`
	State    *view.StateView   `json:"state,omitempty"`
	Actions  []view.ActionView `json:"actions,omitempty"`
	Result   *StepOutcome      `json:"result,omitempty"`
	Seat     int               `json:"seat"`
	GameOver bool              `json:"game_over"`
	Rewards  []int             `json:"rewards,omitempty"`
	Ranking  []game.RankEntry  `json:"ranking,omitempty"`
}

// StartOptions configures a new game.
type StartOptions struct {
	Players  int
	Seed     uint64
	Seat     int    // seat played by the caller, or AllSeats
	Opponent string // policy for the other seats
}

// Session holds one engine and the seats played by built-in agents. All
// methods are safe for concurrent use.
type Session struct {
	catalog game.Catalog

	mu        sync.Mutex
	env       *game.Env
	events    *log.MemoryLogger
	seat      int
	opponents []agent.Agent // nil where the caller plays
	rewards   []int
}

// NewSession creates an idle session over catalog.
func NewSession(catalog game.Catalog) *Session {
	return &Session{catalog: catalog}
}

// Start replaces any running game, lets opponents move until the caller is
// up, and returns the first decision.
func (s *Session) Start(ctx context.Context, opts StartOptions) (*ToolResponse, error) {
	if opts.Seat != AllSeats && (opts.Seat < 0 || opts.Seat >= opts.Players) {
		return nil, fmt.Errorf("seat must be %d or 0-%d", AllSeats, opts.Players-1)
	}
	events := log.NewMemoryLogger()
	env, err := game.NewEnv(s.catalog, game.Config{Players: opts.Players, Logger: events})
	if err != nil {
		return nil, err
	}
	opponents := make([]agent.Agent, opts.Players)
	if opts.Seat != AllSeats {
		for i := range opponents {
			if i == opts.Seat {
				continue
			}
			a, err := agent.New(opts.Opponent, opts.Seed*31+uint64(i))
			if err != nil {
				return nil, err
			}
			opponents[i] = a
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.env = env
	s.events = events
	s.seat = opts.Seat
	s.opponents = opponents
	s.rewards = nil

	env.ResetSeed(opts.Seed)
	if err := s.advance(ctx); err != nil {
		return nil, err
	}
	return s.respond(nil)
}

// Step applies the caller's action, given as an index into the legal list
// or as action text, then lets opponents move.
func (s *Session) Step(ctx context.Context, text string) (*ToolResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.env == nil {
		return nil, ErrNoGame
	}
	if s.env.Done() {
		return nil, ErrGameOver
	}

	action, err := view.MatchAction(text, s.env.LegalActions())
	if err != nil {
		return nil, err
	}
	res, err := s.env.Step(action)
	if err != nil {
		return nil, err
	}
	s.rewards = res.Rewards
	outcome := &StepOutcome{
		Action:  action.String(),
		Applied: res.Info.Applied,
		Invalid: res.Info.Invalid,
		Reason:  res.Info.Reason,
	}
	if err := s.advance(ctx); err != nil {
		return nil, err
	}
	return s.respond(outcome)
}

// Snapshot returns the current decision without changing anything except
// draining the event buffer.
func (s *Session) Snapshot() (*ToolResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.env == nil {
		return nil, ErrNoGame
	}
	return s.respond(nil)
}

// LegalActions lists the current choices without draining events.
func (s *Session) LegalActions() ([]view.ActionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.env == nil {
		return nil, ErrNoGame
	}
	return view.ActionViews(s.env.LegalActions()), nil
}

// Observe returns the numeric observation for a seat.
func (s *Session) Observe(player int) (*view.ObservationView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.env == nil {
		return nil, ErrNoGame
	}
	obs, err := s.env.Observe(player)
	if err != nil {
		return nil, err
	}
	ov := view.BuildObservationView(obs)
	return &ov, nil
}

// advance plays opponent seats until the caller is to act or the game ends.
func (s *Session) advance(ctx context.Context) error {
	for steps := 0; !s.env.Done(); steps++ {
		gs, err := s.env.State()
		if err != nil {
			return err
		}
		opp := s.opponents[gs.CurrentPlayer]
		if opp == nil {
			return nil
		}
		if steps >= autoPlayLimit {
			return fmt.Errorf("seat %d did not finish its turn", gs.CurrentPlayer)
		}
		res, err := agent.Turn(ctx, s.env, opp)
		if err != nil {
			return err
		}
		s.rewards = res.Rewards
	}
	return nil
}

// respond builds the envelope from the caller's perspective. Caller must
// hold s.mu.
func (s *Session) respond(outcome *StepOutcome) (*ToolResponse, error) {
	gs, err := s.env.State()
	if err != nil {
		return nil, err
	}
	perspective := s.seat
	if perspective == AllSeats {
		perspective = gs.CurrentPlayer
	}

	resp := &ToolResponse{
		Events:   view.EventViews(s.events.Drain()),
		State:    view.BuildStateView(gs, perspective),
		Result:   outcome,
		Seat:     perspective,
		GameOver: s.env.Done(),
	}
	if resp.GameOver {
		resp.Rewards = s.rewards
		resp.Ranking = s.env.Ranking()
	} else {
		resp.Actions = view.ActionViews(s.env.LegalActions())
	}
	return resp, nil
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp any) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
