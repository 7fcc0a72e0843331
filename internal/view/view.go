package view

import (
	"github.com/peterkuimelis/evosplendor/internal/game"
	"github.com/peterkuimelis/evosplendor/internal/log"
)

// View types for presenting engine state to text clients and tool callers.

// EventView is a simplified game event.
type EventView struct {
	Turn    int    `json:"turn"`
	Player  int    `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// ActionView is a numbered action choice.
type ActionView struct {
	Index  int         `json:"index"`
	Tag    string      `json:"tag"`
	Desc   string      `json:"desc"`
	Action game.Action `json:"action"`
}

// CardView describes one card slot.
type CardView struct {
	Empty     bool           `json:"empty,omitempty"`
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name,omitempty"`
	Level     int            `json:"level,omitempty"`
	Point     int            `json:"point,omitempty"`
	Cost      map[string]int `json:"cost,omitempty"`
	Reward    map[string]int `json:"reward,omitempty"`
	EvolvesTo string         `json:"evolves_to,omitempty"`
	EvoCost   string         `json:"evolution_cost,omitempty"`
	Stacked   int            `json:"stacked,omitempty"`
}

// PlayerView shows one seat.
type PlayerView struct {
	Index         int            `json:"index"`
	Name          string         `json:"name"`
	Tokens        map[string]int `json:"tokens"`
	Bonus         map[string]int `json:"bonus"`
	Trophies      int            `json:"trophies"`
	Penalty       int            `json:"penalty"`
	HandCount     int            `json:"hand_count"`
	Hand          []CardView     `json:"hand,omitempty"`     // only for "you"
	Reserved      []CardView     `json:"reserved,omitempty"` // only for "you"
	ReservedCount int            `json:"reserved_count"`
}

// MarketRow is one level of the face-up market.
type MarketRow struct {
	Level     int        `json:"level"`
	Key       string     `json:"key"`
	Slots     []CardView `json:"slots"`
	DeckCount int        `json:"deck_count"`
}

// StateView is the game state from one player's perspective.
type StateView struct {
	Turn          int            `json:"turn"`
	CurrentPlayer int            `json:"current_player"`
	IsYourTurn    bool           `json:"is_your_turn"`
	Primary       string         `json:"primary_action,omitempty"`
	Evolved       bool           `json:"evolved"`
	Pool          map[string]int `json:"token_pool"`
	You           PlayerView     `json:"you"`
	Opponents     []PlayerView   `json:"opponents"`
	Market        []MarketRow    `json:"market"`
	EndTriggered  bool           `json:"end_triggered"`
	TriggerTurn   int            `json:"end_trigger_turn,omitempty"`
	Done          bool           `json:"done"`
}

// ObservationView is Observation with color-keyed player vectors.
type ObservationView struct {
	Turn          int                          `json:"turn"`
	CurrentPlayer int                          `json:"current_player"`
	PlayerIndex   int                          `json:"player_index"`
	Tokens        map[string]int               `json:"tokens"`
	RewardBonus   map[string]int               `json:"reward_bonus"`
	Trophies      int                          `json:"trophies"`
	HandSize      int                          `json:"hand_size"`
	Market        map[string][]game.CardVector `json:"market"`
	Reserved      []game.CardVector            `json:"reserved"`
}

// ColorMap keys a token vector by color name, dropping zero entries.
func ColorMap(t game.Tokens) map[string]int {
	out := make(map[string]int)
	for c, n := range t {
		if n != 0 {
			out[game.Color(c).String()] = n
		}
	}
	return out
}

// fullColorMap keeps zero entries so every color is always present.
func fullColorMap(t game.Tokens) map[string]int {
	out := make(map[string]int, game.NumColors)
	for c, n := range t {
		out[game.Color(c).String()] = n
	}
	return out
}

// BuildCardView describes a card; nil is an empty slot.
func BuildCardView(c *game.Card) CardView {
	if c == nil {
		return CardView{Empty: true}
	}
	cv := CardView{
		ID:      c.ID,
		Name:    c.Name,
		Level:   c.Level,
		Point:   c.Point,
		Cost:    ColorMap(c.CostVector()),
		Reward:  ColorMap(c.RewardVector()),
		Stacked: game.EvolutionDepth(c),
	}
	if c.Evolution != nil {
		cv.EvolvesTo = c.Evolution.Name
		cv.EvoCost = formatItem(c.Evolution.Cost)
	}
	return cv
}

func buildCardViews(cards []*game.Card) []CardView {
	out := make([]CardView, len(cards))
	for i, c := range cards {
		out[i] = BuildCardView(c)
	}
	return out
}

// BuildPlayerView summarizes a seat. Hand and reserved contents are only
// included when owner is set.
func BuildPlayerView(p *game.PlayerState, index int, owner bool) PlayerView {
	pv := PlayerView{
		Index:         index,
		Name:          p.Name,
		Tokens:        fullColorMap(p.Tokens),
		Bonus:         ColorMap(game.RewardBonus(p)),
		Trophies:      game.TotalTrophies(p),
		Penalty:       game.PenaltyCount(p),
		HandCount:     game.VisibleCardCount(p),
		ReservedCount: len(p.Reserved),
	}
	if owner {
		pv.Hand = buildCardViews(p.Hand)
		pv.Reserved = buildCardViews(p.Reserved)
	}
	return pv
}

// BuildStateView creates a StateView from the perspective of the given player.
func BuildStateView(state *game.GameState, player int) *StateView {
	sv := &StateView{
		Turn:          state.Turn,
		CurrentPlayer: state.CurrentPlayer,
		IsYourTurn:    state.CurrentPlayer == player,
		Primary:       state.PerTurn.Primary.String(),
		Evolved:       state.PerTurn.Evolved,
		Pool:          fullColorMap(state.TokenPool),
		EndTriggered:  state.EndTriggered,
		Done:          state.VictoryResolved,
	}
	if state.EndTriggered {
		sv.TriggerTurn = state.EndTriggerTurn
	}

	for i, p := range state.Players {
		if i == player {
			sv.You = BuildPlayerView(p, i, true)
			continue
		}
		sv.Opponents = append(sv.Opponents, BuildPlayerView(p, i, false))
	}

	for level := 1; level <= game.NumLevels; level++ {
		sv.Market = append(sv.Market, MarketRow{
			Level:     level,
			Key:       game.LevelKey(level),
			Slots:     buildCardViews(state.Market[level-1]),
			DeckCount: state.DeckCount(level),
		})
	}
	return sv
}

// BuildObservationView rekeys an observation for JSON consumers.
func BuildObservationView(obs game.Observation) ObservationView {
	market := make(map[string][]game.CardVector, game.NumLevels)
	for level := 1; level <= game.NumLevels; level++ {
		market[game.LevelKey(level)] = obs.Market.Level(level)
	}
	return ObservationView{
		Turn:          obs.Turn,
		CurrentPlayer: obs.CurrentPlayer,
		PlayerIndex:   obs.PlayerIndex,
		Tokens:        fullColorMap(obs.Player.Tokens),
		RewardBonus:   fullColorMap(obs.Player.RewardBonus),
		Trophies:      obs.Player.Trophies,
		HandSize:      obs.Player.HandSize,
		Market:        market,
		Reserved:      obs.Reserved,
	}
}

// ActionViews numbers a legal action list.
func ActionViews(actions []game.Action) []ActionView {
	views := make([]ActionView, len(actions))
	for i, a := range actions {
		views[i] = ActionView{Index: i, Tag: a.Type.String(), Desc: a.String(), Action: a}
	}
	return views
}

// FromEvent converts a logged event.
func FromEvent(ev log.GameEvent) EventView {
	return EventView{
		Turn:    ev.Turn,
		Player:  ev.Player,
		Type:    ev.Type.String(),
		Card:    ev.Card,
		Details: ev.Details,
	}
}

// EventViews converts a batch of logged events. The result is never nil.
func EventViews(events []log.GameEvent) []EventView {
	out := make([]EventView, 0, len(events))
	for _, ev := range events {
		out = append(out, FromEvent(ev))
	}
	return out
}
