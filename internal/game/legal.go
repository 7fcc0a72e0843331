package game

// LegalActions enumerates every action the active player may take now.
// The result is empty when there is no state or the episode is over.
func (e *Env) LegalActions() []Action {
	if e.state == nil || e.done {
		return nil
	}
	return legalActions(e.state)
}

func legalActions(gs *GameState) []Action {
	player := gs.Active()

	// Over the token limit the player must discard before anything else.
	if TotalTokens(player) > TokenLimit {
		return returnTokenActions(player)
	}

	var actions []Action
	if gs.PerTurn.Primary == PrimaryNone {
		actions = append(actions, takeActions(gs)...)
		actions = append(actions, reserveActions(gs, player)...)
		actions = append(actions, buyActions(gs, player)...)
		actions = append(actions, Action{Type: ActionSkipPrimary})
	}
	if !gs.PerTurn.Evolved {
		actions = append(actions, evolveActions(gs, player)...)
	}
	if gs.PerTurn.Primary != PrimaryNone || gs.VictoryResolved {
		actions = append(actions, Action{Type: ActionEndTurn})
	}
	return actions
}

func returnTokenActions(p *PlayerState) []Action {
	var actions []Action
	for c := Color(0); c < NumColors; c++ {
		if p.Tokens[c] > 0 {
			actions = append(actions, Action{Type: ActionReturnTokens, Color: c, Count: 1})
		}
	}
	return actions
}

// availableColors lists the non-wildcard colors the bank still holds.
func availableColors(pool Tokens) []Color {
	var colors []Color
	for c := Color(0); c < Wildcard; c++ {
		if pool[c] > 0 {
			colors = append(colors, c)
		}
	}
	return colors
}

func takeActions(gs *GameState) []Action {
	var actions []Action
	avail := availableColors(gs.TokenPool)
	switch {
	case len(avail) >= 3:
		for i := 0; i < len(avail); i++ {
			for j := i + 1; j < len(avail); j++ {
				for k := j + 1; k < len(avail); k++ {
					actions = append(actions, Action{
						Type:   ActionTake3,
						Colors: []Color{avail[i], avail[j], avail[k]},
					})
				}
			}
		}
	case len(avail) > 0:
		actions = append(actions, Action{Type: ActionTake3, Colors: avail})
	}

	for c := Color(0); c < Wildcard; c++ {
		if canTakeTwo(gs.TokenPool, c) {
			actions = append(actions, Action{Type: ActionTake2, Color: c})
		}
	}
	return actions
}

func canTakeTwo(pool Tokens, c Color) bool {
	return c >= 0 && c < Wildcard && pool[c] >= 4
}

// reservable reports whether a level's market cards may be reserved.
func reservable(level int) bool {
	return level >= Level1 && level <= Level3
}

func reserveActions(gs *GameState, p *PlayerState) []Action {
	if len(p.Reserved) >= MaxReserved {
		if gs.TokenPool[Wildcard] > 0 {
			return []Action{{Type: ActionReserveWildcard}}
		}
		return nil
	}
	var actions []Action
	for level := Level1; level <= Level3; level++ {
		for i, c := range gs.Market[level-1] {
			if c != nil {
				actions = append(actions, Action{Type: ActionReserveMarket, Level: level, Index: i, CardID: c.ID})
			}
		}
	}
	return actions
}

func buyActions(gs *GameState, p *PlayerState) []Action {
	var actions []Action
	for level := 1; level <= NumLevels; level++ {
		for i, c := range gs.Market[level-1] {
			if c != nil && CanAfford(p, c) {
				actions = append(actions, Action{Type: ActionBuyMarket, Level: level, Index: i, CardID: c.ID})
			}
		}
	}
	for i, c := range p.Reserved {
		if c != nil && CanAfford(p, c) {
			actions = append(actions, Action{Type: ActionBuyReserved, Index: i, CardID: c.ID})
		}
	}
	return actions
}

func evolveActions(gs *GameState, p *PlayerState) []Action {
	var actions []Action
	for level := 1; level <= NumLevels; level++ {
		for i, c := range gs.Market[level-1] {
			if c != nil && FirstAffordableBase(p, c) != nil {
				actions = append(actions, Action{Type: ActionEvolveMarket, Level: level, Index: i, CardID: c.ID})
			}
		}
	}
	for i, c := range p.Reserved {
		if c != nil && FirstAffordableBase(p, c) != nil {
			actions = append(actions, Action{Type: ActionEvolveReserved, Index: i, CardID: c.ID})
		}
	}
	return actions
}
