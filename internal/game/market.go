package game

import "golang.org/x/exp/rand"

// buildDecks clones every catalog card into fresh per-level decks and
// shuffles each deck once with the engine's generator.
func buildDecks(catalog Catalog, rng *rand.Rand) [NumLevels][]*Card {
	var decks [NumLevels][]*Card
	for l := 0; l < NumLevels; l++ {
		deck := make([]*Card, len(catalog.Levels[l]))
		for i := range catalog.Levels[l] {
			deck[i] = catalog.Levels[l][i].Clone()
		}
		rng.Shuffle(len(deck), func(i, j int) {
			deck[i], deck[j] = deck[j], deck[i]
		})
		decks[l] = deck
	}
	return decks
}

// fillMarket lays out the initial face-up slots from the top of each deck.
func (gs *GameState) fillMarket() {
	for l := 0; l < NumLevels; l++ {
		gs.Market[l] = make([]*Card, marketSlots[l])
		for i := range gs.Market[l] {
			gs.Market[l][i] = gs.draw(l + 1)
		}
	}
}

// draw pops the top card of a level's deck, or returns nil when it is exhausted.
func (gs *GameState) draw(level int) *Card {
	deck := gs.Decks[level-1]
	if len(deck) == 0 {
		return nil
	}
	card := deck[len(deck)-1]
	gs.Decks[level-1] = deck[:len(deck)-1]
	return card
}

// DrawIntoSlot refills a vacated slot. The slot stays empty if the deck is exhausted.
func (gs *GameState) DrawIntoSlot(level, index int) {
	gs.Market[level-1][index] = gs.draw(level)
}

// takeFromSlot empties a slot, refills it, and returns the card that was there.
func (gs *GameState) takeFromSlot(level, index int) *Card {
	card := gs.Market[level-1][index]
	gs.Market[level-1][index] = nil
	gs.DrawIntoSlot(level, index)
	return card
}

// DeckCount returns the number of cards left in a level's deck.
func (gs *GameState) DeckCount(level int) int {
	return len(gs.Decks[level-1])
}
