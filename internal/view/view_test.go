package view

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/evosplendor/internal/game"
	"github.com/peterkuimelis/evosplendor/internal/log"
)

func newEnv(t *testing.T, players int, seed uint64) (*game.Env, *log.MemoryLogger) {
	t.Helper()
	cat, err := game.DefaultCatalog()
	require.NoError(t, err)
	logger := log.NewMemoryLogger()
	env, err := game.NewEnv(cat, game.Config{Players: players, Logger: logger})
	require.NoError(t, err)
	env.ResetSeed(seed)
	return env, logger
}

// TestBuildStateViewHidesOpponents: only the viewer's hand and reserved
// cards are listed; opponents show counts.
func TestBuildStateViewHidesOpponents(t *testing.T) {
	env, _ := newEnv(t, 3, 4)
	_, err := env.Step(game.Action{Type: game.ActionReserveMarket, Level: 1, Index: 0})
	require.NoError(t, err)

	gs, err := env.State()
	require.NoError(t, err)

	mine := BuildStateView(gs, 0)
	assert.True(t, mine.IsYourTurn)
	assert.Equal(t, "reserve", mine.Primary)
	require.Len(t, mine.You.Reserved, 1)
	assert.Equal(t, gs.Players[0].Reserved[0].ID, mine.You.Reserved[0].ID)
	assert.Equal(t, 1, mine.You.Tokens["master"])
	assert.Equal(t, 0, mine.You.Tokens["poke"], "zero counts are kept")
	require.Len(t, mine.Opponents, 2)
	assert.Equal(t, []int{1, 2}, []int{mine.Opponents[0].Index, mine.Opponents[1].Index})

	theirs := BuildStateView(gs, 1)
	assert.False(t, theirs.IsYourTurn)
	require.Len(t, theirs.Opponents, 2)
	seat0 := theirs.Opponents[0]
	assert.Equal(t, 1, seat0.ReservedCount)
	assert.Nil(t, seat0.Reserved)
	assert.Nil(t, seat0.Hand)

	require.Len(t, mine.Market, game.NumLevels)
	for i, row := range mine.Market {
		assert.Equal(t, i+1, row.Level)
		assert.Equal(t, game.LevelKey(i+1), row.Key)
		assert.Equal(t, gs.DeckCount(i+1), row.DeckCount)
		assert.Len(t, row.Slots, len(gs.Market[i]))
	}
	assert.Equal(t, 4, mine.Pool["master"])
}

func TestBuildCardView(t *testing.T) {
	assert.True(t, BuildCardView(nil).Empty)

	c := &game.Card{
		ID:        "c1",
		Name:      "Ivysaur",
		Level:     2,
		Point:     1,
		Cost:      []game.CostItem{{Color: game.ColorPoke, Number: 2}, {Color: game.Wildcard, Number: 1}},
		Reward:    []game.CostItem{{Color: game.ColorHeal, Number: 1}},
		Evolution: &game.Evolution{Name: "Venusaur", Cost: game.CostItem{Color: game.ColorPoke, Number: 3}},
		Stacked:   []game.Card{{ID: "b", Name: "Bulbasaur"}},
	}
	cv := BuildCardView(c)
	assert.Equal(t, map[string]int{"poke": 2, "master": 1}, cv.Cost)
	assert.Equal(t, map[string]int{"heal": 1}, cv.Reward)
	assert.Equal(t, "Venusaur", cv.EvolvesTo)
	assert.Equal(t, "3 poke", cv.EvoCost)
	assert.Equal(t, 1, cv.Stacked)
	assert.Equal(t, "[Ivysaur 1pt | cost 2 poke 1 master | +1 heal | -> Venusaur (3 poke) | x1]", FormatCard(cv))
}

func TestBuildObservationView(t *testing.T) {
	env, _ := newEnv(t, 2, 9)
	obs, err := env.Observe(1)
	require.NoError(t, err)

	ov := BuildObservationView(obs)
	assert.Equal(t, 1, ov.PlayerIndex)
	assert.Len(t, ov.Tokens, game.NumColors)
	for level := 1; level <= game.NumLevels; level++ {
		assert.Equal(t, obs.Market.Level(level), ov.Market[game.LevelKey(level)])
	}

	data, err := json.Marshal(ov)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"legend":`)
	assert.Contains(t, string(data), `"reward_bonus":`)
}

func TestActionViewsNumberAndTag(t *testing.T) {
	env, _ := newEnv(t, 2, 1)
	actions := env.LegalActions()
	views := ActionViews(actions)
	require.Len(t, views, len(actions))
	for i, v := range views {
		assert.Equal(t, i, v.Index)
		assert.Equal(t, actions[i].Type.String(), v.Tag)
		assert.Equal(t, actions[i].String(), v.Desc)
	}

	// Action types serialize as their wire tags.
	data, err := json.Marshal(views[len(views)-1])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"skip_primary"`)

	var back ActionView
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, game.ActionSkipPrimary, back.Action.Type)
}

func TestEventViewsAndRendering(t *testing.T) {
	env, logger := newEnv(t, 2, 3)
	_, err := env.Step(game.Action{Type: game.ActionSkipPrimary})
	require.NoError(t, err)

	events := EventViews(logger.Events())
	require.NotEmpty(t, events)
	assert.Equal(t, "Reset", events[0].Type)
	assert.Equal(t, "SkipPrimary", events[len(events)-1].Type)
	assert.NotNil(t, EventViews(nil))

	var buf bytes.Buffer
	RenderEvent(&buf, events[0])
	assert.Contains(t, buf.String(), "T1   Reset")

	buf.Reset()
	gs, err := env.State()
	require.NoError(t, err)
	RenderState(&buf, BuildStateView(gs, 0))
	RenderActions(&buf, ActionViews(env.LegalActions()))
	out := buf.String()
	assert.Contains(t, out, "level_1")
	assert.Contains(t, out, "Your turn")
	assert.Contains(t, out, "1) end_turn")
}
