package game

// Payment order for a purchase: for each non-wildcard color the requirement is
// offset by that color's bonus, then that color's tokens. Whatever remains
// across all colors is covered by the wildcard pool (wildcard bonus first,
// then wildcard tokens). Wildcard-colored cost entries come last, against what
// is left of that pool. Bonuses are discounts and are never spent.

// CanAfford reports whether p can buy card right now.
func CanAfford(p *PlayerState, card *Card) bool {
	need := card.CostVector()
	bonus := RewardBonus(p)
	tokens := p.Tokens
	wild := tokens[Wildcard] + bonus[Wildcard]

	for c := Color(0); c < Wildcard; c++ {
		required := need[c]
		required -= min(bonus[c], required)

		use := min(tokens[c], required)
		tokens[c] -= use
		required -= use

		if required > 0 {
			wild -= required
			if wild < 0 {
				return false
			}
		}
	}

	wild -= need[Wildcard]
	return wild >= 0
}

// payment is the token movement a cost would cause.
type payment struct {
	spent    Tokens // tokens moved from player to bank
	shortage int    // units no resource could cover
}

func planPurchase(p *PlayerState, need Tokens) payment {
	bonus := RewardBonus(p)
	var pay payment
	wildBonus := bonus[Wildcard]
	wildTokens := p.Tokens[Wildcard]

	for c := Color(0); c < Wildcard; c++ {
		required := need[c]
		required -= min(bonus[c], required)

		use := min(p.Tokens[c], required)
		pay.spent[c] += use
		required -= use

		if required > 0 {
			fromBonus := min(wildBonus, required)
			wildBonus -= fromBonus
			required -= fromBonus

			fromTokens := min(wildTokens, required)
			wildTokens -= fromTokens
			pay.spent[Wildcard] += fromTokens
			required -= fromTokens

			pay.shortage += required
		}
	}

	required := need[Wildcard]
	fromBonus := min(wildBonus, required)
	required -= fromBonus
	fromTokens := min(wildTokens, required)
	pay.spent[Wildcard] += fromTokens
	required -= fromTokens
	pay.shortage += max(required, 0)

	return pay
}

// settle moves the spent tokens from the player to the bank.
func (pay payment) settle(p *PlayerState, pool *Tokens) {
	for c := range pay.spent {
		p.Tokens[c] -= pay.spent[c]
		pool[c] += pay.spent[c]
	}
}

// PayCost charges p for card and credits the bank. It re-checks
// affordability and leaves everything untouched when the cost can't be met.
func PayCost(p *PlayerState, card *Card, pool *Tokens) bool {
	pay := planPurchase(p, card.CostVector())
	if pay.shortage > 0 {
		return false
	}
	pay.settle(p, pool)
	return true
}

// --- Evolution cost ---

// Evolution cost is a single {color, amount}. A wildcard-colored requirement
// draws only on the wildcard pool. Otherwise: that color's bonus, that
// color's tokens, then wildcard bonus, then wildcard tokens.

func evolutionNeed(base *Card) (CostItem, bool) {
	if base == nil || base.Evolution == nil {
		return CostItem{}, false
	}
	cost := base.Evolution.Cost
	if !cost.Color.Valid() {
		return CostItem{}, false
	}
	return cost, true
}

// CanAffordEvolution reports whether p can pay base's evolution cost.
func CanAffordEvolution(p *PlayerState, base *Card) bool {
	cost, ok := evolutionNeed(base)
	if !ok {
		return false
	}
	bonus := RewardBonus(p)
	wild := p.Tokens[Wildcard] + bonus[Wildcard]
	if cost.Color == Wildcard {
		return wild >= cost.Number
	}

	remaining := cost.Number
	remaining -= min(bonus[cost.Color], remaining)
	remaining -= min(p.Tokens[cost.Color], remaining)
	if remaining <= 0 {
		return true
	}
	return wild >= remaining
}

func planEvolution(p *PlayerState, cost CostItem) payment {
	bonus := RewardBonus(p)
	var pay payment
	remaining := cost.Number

	if cost.Color != Wildcard {
		remaining -= min(bonus[cost.Color], remaining)
		use := min(p.Tokens[cost.Color], remaining)
		pay.spent[cost.Color] += use
		remaining -= use
	}
	if remaining > 0 {
		remaining -= min(bonus[Wildcard], remaining)
	}
	if remaining > 0 {
		use := min(p.Tokens[Wildcard], remaining)
		pay.spent[Wildcard] += use
		remaining -= use
	}
	pay.shortage = max(remaining, 0)
	return pay
}

// PayEvolutionCost charges p for evolving base. Nothing changes when the
// cost can't be met.
func PayEvolutionCost(p *PlayerState, base *Card, pool *Tokens) bool {
	cost, ok := evolutionNeed(base)
	if !ok {
		return false
	}
	pay := planEvolution(p, cost)
	if pay.shortage > 0 {
		return false
	}
	pay.settle(p, pool)
	return true
}

// FirstAffordableBase returns the first hand card (in hand order) that
// evolves into evo and whose evolution cost p can pay. No attempt is made to
// pick the "best" base.
func FirstAffordableBase(p *PlayerState, evo *Card) *Card {
	if evo == nil {
		return nil
	}
	for _, c := range p.Hand {
		if c.EvolvesInto(evo) && CanAffordEvolution(p, c) {
			return c
		}
	}
	return nil
}
