package game

import (
	"sort"

	"github.com/peterkuimelis/evosplendor/internal/log"
)

// checkEndTrigger records the first turn on which any player reaches the
// victory threshold. Play continues after the trigger.
func (e *Env) checkEndTrigger() {
	gs := e.state
	if gs.EndTriggered {
		return
	}
	for i, p := range gs.Players {
		if trophies := TotalTrophies(p); trophies >= VictoryThreshold {
			gs.EndTriggered = true
			gs.EndTriggerTurn = gs.Turn
			e.logger.Log(log.NewEndTriggeredEvent(gs.Turn, i, trophies))
			return
		}
	}
}

// shouldResolveVictory reports whether the episode ends as the active seat
// finishes its turn. Every seat gets the same number of turns once the
// trigger fires.
func shouldResolveVictory(gs *GameState) bool {
	if gs.VictoryResolved || !gs.EndTriggered {
		return false
	}
	if gs.Turn > gs.EndTriggerTurn {
		return true
	}
	return gs.Turn == gs.EndTriggerTurn && gs.IsLastSeat()
}

// Rank orders players by trophies, then penalty count, then visible card
// count (all descending), then seat index ascending.
func Rank(players []*PlayerState) []RankEntry {
	ranking := make([]RankEntry, len(players))
	for i, p := range players {
		ranking[i] = RankEntry{
			PlayerIndex: i,
			Trophies:    TotalTrophies(p),
			Penalty:     PenaltyCount(p),
			TrophyCards: VisibleCardCount(p),
		}
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		a, b := ranking[i], ranking[j]
		if a.Trophies != b.Trophies {
			return a.Trophies > b.Trophies
		}
		if a.Penalty != b.Penalty {
			return a.Penalty > b.Penalty
		}
		if a.TrophyCards != b.TrophyCards {
			return a.TrophyCards > b.TrophyCards
		}
		return a.PlayerIndex < b.PlayerIndex
	})
	return ranking
}

func (e *Env) resolveVictory() {
	gs := e.state
	e.ranking = Rank(gs.Players)
	gs.VictoryResolved = true
	winner := e.ranking[0]
	e.logger.Log(log.NewVictoryEvent(gs.Turn, winner.PlayerIndex, winner.Trophies))
}

// rewards is all zeros until the episode is terminal, then each seat's trophies.
func (e *Env) rewards() []int {
	out := make([]int, e.players)
	if e.state == nil || !e.state.VictoryResolved {
		return out
	}
	for i, p := range e.state.Players {
		out[i] = TotalTrophies(p)
	}
	return out
}
