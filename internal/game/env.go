package game

import (
	"golang.org/x/exp/rand"

	"github.com/peterkuimelis/evosplendor/internal/log"
)

// Config holds configuration for creating an environment.
type Config struct {
	Players int             // seats, at least 2
	Seed    uint64          // initial generator seed
	Logger  log.EventLogger // nil drops events
}

// Env is one engine instance. It exclusively owns its GameState and
// generator; run one Env per parallel episode.
type Env struct {
	catalog Catalog
	players int
	rng     *rand.Rand
	logger  log.EventLogger

	state   *GameState
	done    bool
	ranking []RankEntry
}

// NewEnv creates an environment over a private copy of catalog. Reset must
// be called before anything else.
func NewEnv(catalog Catalog, cfg Config) (*Env, error) {
	if cfg.Players < 2 {
		return nil, ErrInvalidPlayerCount
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NopLogger{}
	}
	return &Env{
		catalog: catalog.Clone(),
		players: cfg.Players,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		logger:  logger,
	}, nil
}

// Players returns the configured seat count.
func (e *Env) Players() int { return e.players }

// Logger returns the event sink.
func (e *Env) Logger() log.EventLogger { return e.logger }

// Reset starts a new episode and returns a snapshot of the initial state.
// A non-nil seed reseeds the generator first; otherwise the generator
// continues from where it was.
func (e *Env) Reset(seed *uint64) *GameState {
	if seed != nil {
		e.rng.Seed(*seed)
	}
	e.done = false
	e.ranking = nil

	gs := &GameState{
		Turn:      1,
		Players:   newPlayers(e.players),
		TokenPool: TokenSupply(e.players),
		Decks:     buildDecks(e.catalog, e.rng),
	}
	gs.fillMarket()
	e.state = gs

	var s uint64
	if seed != nil {
		s = *seed
	}
	e.logger.Log(log.NewResetEvent(e.players, seed != nil, s))
	e.logger.Log(log.NewTurnEvent(gs.Turn, gs.CurrentPlayer))
	return gs.Clone()
}

// ResetSeed is Reset with an explicit seed.
func (e *Env) ResetSeed(seed uint64) *GameState {
	return e.Reset(&seed)
}

// Done reports whether the episode is terminal.
func (e *Env) Done() bool { return e.done }

// Ranking returns the final standings, or nil before the episode ends.
func (e *Env) Ranking() []RankEntry {
	if e.ranking == nil {
		return nil
	}
	return append([]RankEntry(nil), e.ranking...)
}

// State returns a deep snapshot of the live state.
func (e *Env) State() (*GameState, error) {
	if e.state == nil {
		return nil, ErrNotReset
	}
	return e.state.Clone(), nil
}

// Step applies one atomic action. Rule violations leave the state untouched
// and are reported in Info; only use before Reset is an error. Once the
// episode is terminal the cached result is returned without applying.
func (e *Env) Step(a Action) (StepResult, error) {
	if e.state == nil {
		return StepResult{}, ErrNotReset
	}
	if e.done {
		return StepResult{State: e.state.Clone(), Rewards: e.rewards(), Done: true}, nil
	}

	gs := e.state
	turn, seat := gs.Turn, gs.CurrentPlayer
	info := e.apply(a)
	if !info.Applied {
		e.logger.Log(log.NewRejectedEvent(turn, seat, a.String(), info.Reason))
	}

	if gs.VictoryResolved {
		e.done = true
		info.Ranking = e.Ranking()
	}

	return StepResult{
		State:   gs.Clone(),
		Rewards: e.rewards(),
		Done:    e.done,
		Info:    info,
	}, nil
}
