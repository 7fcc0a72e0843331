package game

// TokenLimit is the most tokens a player may hold at end of turn.
const TokenLimit = 10

// RewardBonus returns the standing per-color discount from visible hand cards.
func RewardBonus(p *PlayerState) Tokens {
	var bonus Tokens
	for _, c := range p.Hand {
		r, ok := c.RewardEntry()
		if ok && r.Color.Valid() {
			bonus[r.Color] += r.Number
		}
	}
	return bonus
}

// TotalTokens returns how many tokens the player holds.
func TotalTokens(p *PlayerState) int {
	return p.Tokens.Total()
}

// TotalTrophies sums point values of visible hand cards. Stacked cards don't count.
func TotalTrophies(p *PlayerState) int {
	total := 0
	for _, c := range p.Hand {
		if c != nil {
			total += c.Point
		}
	}
	return total
}

// PenaltyCount is the number of cards consumed by evolution and no longer visible.
func PenaltyCount(p *PlayerState) int {
	n := 0
	for _, c := range p.Hand {
		if c != nil {
			n += countStacked(c.Stacked)
		}
	}
	return n
}

func countStacked(stack []Card) int {
	n := 0
	for i := range stack {
		n += 1 + countStacked(stack[i].Stacked)
	}
	return n
}

// VisibleCardCount returns the number of face-up hand cards.
func VisibleCardCount(p *PlayerState) int {
	n := 0
	for _, c := range p.Hand {
		if c != nil {
			n++
		}
	}
	return n
}
