package game

import "fmt"

// MaxReserved is the most cards a player may hold in reserve.
const MaxReserved = 3

// VictoryThreshold is the trophy total that triggers the final round.
const VictoryThreshold = 18

// PlayerState represents one seat's entire state.
type PlayerState struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Hand      []*Card `json:"hand"`     // acquisition order
	Reserved  []*Card `json:"reserved"` // at most MaxReserved
	Tokens    Tokens  `json:"tokens"`
	IsStarter bool    `json:"is_starter"`
}

// ReservedIndex returns the position of the reserved card with the given ID, or -1.
func (p *PlayerState) ReservedIndex(cardID string) int {
	for i, c := range p.Reserved {
		if c != nil && c.ID == cardID {
			return i
		}
	}
	return -1
}

// RemoveReserved removes the reserved card at position i.
func (p *PlayerState) RemoveReserved(i int) *Card {
	card := p.Reserved[i]
	p.Reserved = append(p.Reserved[:i:i], p.Reserved[i+1:]...)
	return card
}

// HandIndex returns the position of card (by identity) in the hand, or -1.
func (p *PlayerState) HandIndex(card *Card) int {
	for i, c := range p.Hand {
		if c == card {
			return i
		}
	}
	return -1
}

func (p *PlayerState) clone() *PlayerState {
	out := *p
	out.Hand = cloneCards(p.Hand)
	out.Reserved = cloneCards(p.Reserved)
	return &out
}

func cloneCards(cards []*Card) []*Card {
	if cards == nil {
		return nil
	}
	out := make([]*Card, len(cards))
	for i, c := range cards {
		out[i] = c.Clone()
	}
	return out
}

// --- GameState ---

// GameState holds the complete state of an episode.
type GameState struct {
	Turn          int            `json:"turn"` // 1-based, bumps when play returns to seat 0
	CurrentPlayer int            `json:"current_player_index"`
	Players       []*PlayerState `json:"players"`
	TokenPool     Tokens         `json:"token_pool"`

	// Market and Decks are indexed by level-1. A nil market entry is an empty slot.
	// The top of a deck is its last element.
	Market [NumLevels][]*Card `json:"market"`
	Decks  [NumLevels][]*Card `json:"decks"`

	PerTurn         PerTurn `json:"per_turn"`
	EndTriggered    bool    `json:"end_triggered"`
	EndTriggerTurn  int     `json:"end_trigger_turn"` // meaningful only when EndTriggered
	VictoryResolved bool    `json:"victory_resolved"`
}

// Active returns the player whose turn it is.
func (gs *GameState) Active() *PlayerState {
	return gs.Players[gs.CurrentPlayer]
}

// IsLastSeat reports whether the active player is last in turn order.
func (gs *GameState) IsLastSeat() bool {
	return gs.CurrentPlayer == len(gs.Players)-1
}

// Clone returns a deep copy that shares nothing with gs.
func (gs *GameState) Clone() *GameState {
	out := *gs
	out.Players = make([]*PlayerState, len(gs.Players))
	for i, p := range gs.Players {
		out.Players[i] = p.clone()
	}
	for l := 0; l < NumLevels; l++ {
		out.Market[l] = cloneCards(gs.Market[l])
		out.Decks[l] = cloneCards(gs.Decks[l])
	}
	return &out
}

// Slot returns the market card at (level, index), or nil if the slot is
// empty or out of range.
func (gs *GameState) Slot(level, index int) *Card {
	if level < 1 || level > NumLevels {
		return nil
	}
	row := gs.Market[level-1]
	if index < 0 || index >= len(row) {
		return nil
	}
	return row[index]
}

// TokenSupply returns the bank's starting pool for a player count.
func TokenSupply(players int) Tokens {
	per := 7
	switch players {
	case 2:
		per = 4
	case 3:
		per = 6
	}
	return Tokens{per, per, per, per, per, 5}
}

// newPlayers builds the seats for a fresh episode.
func newPlayers(n int) []*PlayerState {
	players := make([]*PlayerState, n)
	for i := range players {
		players[i] = &PlayerState{
			ID:        fmt.Sprintf("P%d", i),
			Name:      fmt.Sprintf("Player %d", i+1),
			IsStarter: i == 0,
		}
	}
	return players
}
