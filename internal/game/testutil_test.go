package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/peterkuimelis/evosplendor/internal/log"
)

// --- Test card helpers ---

func item(c Color, n int) CostItem {
	return CostItem{Color: c, Number: n}
}

// costCard builds a card with the given cost and no reward.
func costCard(id string, point int, cost ...CostItem) *Card {
	return &Card{ID: id, Name: id, Level: Level1, Point: point, Cost: cost}
}

// rewardCard builds a hand card that grants a standing bonus.
func rewardCard(id string, c Color, n int) *Card {
	return &Card{ID: id, Name: id, Level: Level1, Reward: []CostItem{item(c, n)}}
}

// baseCard builds a hand card that evolves into evoName for the given cost.
func baseCard(id string, point int, evoName string, cost CostItem) *Card {
	return &Card{
		ID:        id,
		Name:      id,
		Level:     Level1,
		Point:     point,
		Evolution: &Evolution{Name: evoName, Cost: cost},
	}
}

func playerWith(tokens Tokens, hand ...*Card) *PlayerState {
	return &PlayerState{ID: "P0", Name: "Player 1", Tokens: tokens, Hand: hand}
}

// --- Environment helpers ---

func loadTestCatalog(t *testing.T) Catalog {
	t.Helper()
	cat, err := LoadCatalogFile("cards.yaml")
	require.NoError(t, err)
	return cat
}

// newTestEnv builds and resets an environment over the test catalog.
func newTestEnv(t *testing.T, players int, seed uint64) (*Env, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	env, err := NewEnv(loadTestCatalog(t), Config{Players: players, Logger: logger})
	require.NoError(t, err)
	env.ResetSeed(seed)
	return env, logger
}

// grant moves tokens from the bank to a seat, keeping the totals intact.
func grant(t *testing.T, gs *GameState, seat int, tokens Tokens) {
	t.Helper()
	for c, n := range tokens {
		require.GreaterOrEqual(t, gs.TokenPool[c], n, "bank short of %s", Color(c))
		gs.TokenPool[c] -= n
		gs.Players[seat].Tokens[c] += n
	}
}

// stepOK applies an action and fails the test if it is rejected.
func stepOK(t *testing.T, env *Env, a Action) StepResult {
	t.Helper()
	res, err := env.Step(a)
	require.NoError(t, err)
	require.True(t, res.Info.Applied, "%s rejected: %s", a, res.Info.Reason)
	return res
}

func findAction(actions []Action, typ ActionType) (Action, bool) {
	for _, a := range actions {
		if a.Type == typ {
			return a, true
		}
	}
	return Action{}, false
}

func countActions(actions []Action, typ ActionType) int {
	n := 0
	for _, a := range actions {
		if a.Type == typ {
			n++
		}
	}
	return n
}

// --- Invariants ---

// checkInvariants asserts token conservation, non-negative counts, the
// reserve cap, and that every card instance lives in exactly one place.
func checkInvariants(t *testing.T, env *Env) {
	t.Helper()
	gs := env.state
	supply := TokenSupply(env.players)

	var held Tokens
	for _, p := range gs.Players {
		require.LessOrEqual(t, len(p.Reserved), MaxReserved)
		for c, n := range p.Tokens {
			require.GreaterOrEqual(t, n, 0, "%s holds negative %s", p.ID, Color(c))
			held[c] += n
		}
	}
	for c := range supply {
		require.GreaterOrEqual(t, gs.TokenPool[c], 0)
		require.Equal(t, supply[c], gs.TokenPool[c]+held[c], "%s not conserved", Color(c))
	}

	seen := make(map[*Card]bool)
	total := 0
	visit := func(c *Card) {
		if c == nil {
			return
		}
		require.False(t, seen[c], "card %s appears twice", c.ID)
		seen[c] = true
		total += 1 + countStacked(c.Stacked)
	}
	for l := 0; l < NumLevels; l++ {
		for _, c := range gs.Decks[l] {
			visit(c)
		}
		for _, c := range gs.Market[l] {
			visit(c)
		}
	}
	for _, p := range gs.Players {
		for _, c := range p.Hand {
			visit(c)
		}
		for _, c := range p.Reserved {
			visit(c)
		}
	}
	require.Equal(t, env.catalog.Size(), total, "card count drifted")
}

func newPolicyRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// playRandom drives env with uniformly random legal actions, calling check
// after every step. It stops when the episode ends or maxSteps is reached.
func playRandom(t *testing.T, env *Env, rng *rand.Rand, maxSteps int, check func(a Action, res StepResult)) int {
	t.Helper()
	steps := 0
	for !env.Done() && steps < maxSteps {
		actions := env.LegalActions()
		require.NotEmpty(t, actions, "no legal actions at step %d", steps)
		a := actions[rng.Intn(len(actions))]
		res, err := env.Step(a)
		require.NoError(t, err)
		if check != nil {
			check(a, res)
		}
		steps++
	}
	return steps
}
