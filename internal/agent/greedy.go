package agent

import (
	"context"

	"github.com/peterkuimelis/evosplendor/internal/game"
)

// Greedy buys the cheapest affordable card, preferring more points on
// equal cost. With nothing to buy it ends the turn, and otherwise takes
// the first legal action.
type Greedy struct{}

func (Greedy) ChooseAction(ctx context.Context, obs game.Observation, actions []game.Action) (game.Action, error) {
	if err := ctx.Err(); err != nil {
		return game.Action{}, err
	}
	if len(actions) == 0 {
		return game.Action{}, ErrNoActions
	}

	best, bestCost, bestPoints := -1, 0.0, 0.0
	for i, a := range actions {
		v, ok := cardFor(obs, a)
		if !ok {
			continue
		}
		cost, points := TotalCost(v), v[1]
		if best < 0 || cost < bestCost || (cost == bestCost && points > bestPoints) {
			best, bestCost, bestPoints = i, cost, points
		}
	}
	if best >= 0 {
		return actions[best], nil
	}

	for _, a := range actions {
		if a.Type == game.ActionEndTurn {
			return a, nil
		}
	}
	return actions[0], nil
}

// cardFor returns the encoded card a buy action targets.
func cardFor(obs game.Observation, a game.Action) (game.CardVector, bool) {
	switch a.Type {
	case game.ActionBuyMarket:
		row := obs.Market.Level(a.Level)
		if a.Index >= 0 && a.Index < len(row) {
			return row[a.Index], true
		}
	case game.ActionBuyReserved:
		if a.Index >= 0 && a.Index < len(obs.Reserved) {
			return obs.Reserved[a.Index], true
		}
	}
	return game.CardVector{}, false
}

// TotalCost sums the six cost entries of an encoded card.
func TotalCost(v game.CardVector) float64 {
	total := 0.0
	for _, n := range v[2 : 2+game.NumColors] {
		total += n
	}
	return total
}
