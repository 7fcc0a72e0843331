package game

import "github.com/peterkuimelis/evosplendor/internal/log"

// ReasonPrimaryRequired rejects end_turn before a primary action.
const ReasonPrimaryRequired = "primary_required"

func applied() StepInfo { return StepInfo{Applied: true} }

// locked is a phase rejection: the action is well formed but not now.
func locked(reason string) StepInfo { return StepInfo{Reason: reason} }

// invalid is a structural or rules rejection.
func invalid(reason string) StepInfo { return StepInfo{Invalid: true, Reason: reason} }

// apply dispatches one action. Every handler validates fully before it
// mutates anything, so a rejection leaves the state as it was.
func (e *Env) apply(a Action) StepInfo {
	if _, ok := actionTags[a.Type]; !ok {
		return invalid(ReasonUnknownAction)
	}
	// While over the limit, discarding is the only move.
	if a.Type != ActionReturnTokens && TotalTokens(e.state.Active()) > TokenLimit {
		return invalid(ReasonTokenLimit)
	}

	switch a.Type {
	case ActionTake3:
		return e.takeThree(a)
	case ActionTake2:
		return e.takeTwo(a)
	case ActionReserveMarket:
		return e.reserveMarket(a)
	case ActionReserveWildcard:
		return e.reserveWildcard()
	case ActionBuyMarket:
		return e.buyMarket(a)
	case ActionBuyReserved:
		return e.buyReserved(a)
	case ActionEvolveMarket:
		return e.evolveMarket(a)
	case ActionEvolveReserved:
		return e.evolveReserved(a)
	case ActionReturnTokens:
		return e.returnTokens(a)
	case ActionSkipPrimary:
		return e.skipPrimary()
	case ActionEndTurn:
		return e.endTurn()
	default:
		panic("unhandled action type " + a.Type.String())
	}
}

// --- Primary actions ---

func (e *Env) takeThree(a Action) StepInfo {
	gs := e.state
	if gs.PerTurn.Primary != PrimaryNone {
		return locked(ReasonPrimaryLocked)
	}
	if len(a.Colors) == 0 {
		return invalid(ReasonMalformed)
	}

	seen := make(map[Color]bool, len(a.Colors))
	for _, c := range a.Colors {
		if c < 0 || c >= Wildcard || seen[c] {
			return invalid(ReasonMalformed)
		}
		seen[c] = true
	}

	want := min(len(availableColors(gs.TokenPool)), 3)
	if len(a.Colors) != want {
		return invalid(ReasonMalformed)
	}
	for _, c := range a.Colors {
		if gs.TokenPool[c] <= 0 {
			return invalid(ReasonUnavailable)
		}
	}

	p := gs.Active()
	names := make([]string, len(a.Colors))
	for i, c := range a.Colors {
		gs.TokenPool[c]--
		p.Tokens[c]++
		names[i] = c.String()
	}
	gs.PerTurn.Primary = PrimaryTake3
	e.logger.Log(log.NewTakeTokensEvent(gs.Turn, gs.CurrentPlayer, names))
	return applied()
}

func (e *Env) takeTwo(a Action) StepInfo {
	gs := e.state
	if gs.PerTurn.Primary != PrimaryNone {
		return locked(ReasonPrimaryLocked)
	}
	if a.Color < 0 || a.Color >= Wildcard {
		return invalid(ReasonMalformed)
	}
	if !canTakeTwo(gs.TokenPool, a.Color) {
		return invalid(ReasonUnavailable)
	}

	p := gs.Active()
	gs.TokenPool[a.Color] -= 2
	p.Tokens[a.Color] += 2
	gs.PerTurn.Primary = PrimaryTake2
	name := a.Color.String()
	e.logger.Log(log.NewTakeTokensEvent(gs.Turn, gs.CurrentPlayer, []string{name, name}))
	return applied()
}

func (e *Env) reserveMarket(a Action) StepInfo {
	gs := e.state
	if gs.PerTurn.Primary != PrimaryNone {
		return locked(ReasonPrimaryLocked)
	}
	if !reservable(a.Level) {
		return invalid(ReasonMalformed)
	}
	card := gs.Slot(a.Level, a.Index)
	if card == nil {
		return invalid(ReasonUnavailable)
	}

	p := gs.Active()
	if len(p.Reserved) >= MaxReserved {
		return e.reserveWildcard()
	}

	gs.takeFromSlot(a.Level, a.Index)
	p.Reserved = append(p.Reserved, card)
	gotWild := false
	if gs.TokenPool[Wildcard] > 0 {
		gs.TokenPool[Wildcard]--
		p.Tokens[Wildcard]++
		gotWild = true
	}
	gs.PerTurn.Primary = PrimaryReserve
	e.logger.Log(log.NewReserveEvent(gs.Turn, gs.CurrentPlayer, card.String(), a.Level, gotWild))
	return applied()
}

// reserveWildcard takes a wildcard in place of a reservation once the
// reserve is full.
func (e *Env) reserveWildcard() StepInfo {
	gs := e.state
	if gs.PerTurn.Primary != PrimaryNone {
		return locked(ReasonPrimaryLocked)
	}
	p := gs.Active()
	if len(p.Reserved) < MaxReserved {
		return invalid(ReasonUnavailable)
	}
	if gs.TokenPool[Wildcard] <= 0 {
		return invalid(ReasonUnavailable)
	}

	gs.TokenPool[Wildcard]--
	p.Tokens[Wildcard]++
	gs.PerTurn.Primary = PrimaryReserve
	e.logger.Log(log.NewReserveWildcardEvent(gs.Turn, gs.CurrentPlayer))
	return applied()
}

func (e *Env) buyMarket(a Action) StepInfo {
	gs := e.state
	if gs.PerTurn.Primary != PrimaryNone {
		return locked(ReasonPrimaryLocked)
	}
	card := gs.Slot(a.Level, a.Index)
	if card == nil {
		return invalid(ReasonUnavailable)
	}

	p := gs.Active()
	if !PayCost(p, card, &gs.TokenPool) {
		return invalid(ReasonUnaffordable)
	}
	gs.takeFromSlot(a.Level, a.Index)
	p.Hand = append(p.Hand, card)
	gs.PerTurn.Primary = PrimaryBuy
	e.logger.Log(log.NewBuyEvent(gs.Turn, gs.CurrentPlayer, card.String(), LevelKey(a.Level), card.Point))
	e.checkEndTrigger()
	return applied()
}

func (e *Env) buyReserved(a Action) StepInfo {
	gs := e.state
	if gs.PerTurn.Primary != PrimaryNone {
		return locked(ReasonPrimaryLocked)
	}
	p := gs.Active()
	idx := p.ReservedIndex(a.CardID)
	if idx < 0 {
		return invalid(ReasonUnavailable)
	}
	card := p.Reserved[idx]
	if !PayCost(p, card, &gs.TokenPool) {
		return invalid(ReasonUnaffordable)
	}

	p.RemoveReserved(idx)
	p.Hand = append(p.Hand, card)
	gs.PerTurn.Primary = PrimaryBuy
	e.logger.Log(log.NewBuyEvent(gs.Turn, gs.CurrentPlayer, card.String(), "reserve", card.Point))
	e.checkEndTrigger()
	return applied()
}

func (e *Env) skipPrimary() StepInfo {
	gs := e.state
	if gs.PerTurn.Primary != PrimaryNone {
		return locked(ReasonPrimaryLocked)
	}
	gs.PerTurn.Primary = PrimarySkip
	e.logger.Log(log.NewSkipPrimaryEvent(gs.Turn, gs.CurrentPlayer))
	return applied()
}

// --- Evolution ---

func (e *Env) evolveMarket(a Action) StepInfo {
	gs := e.state
	if gs.PerTurn.Evolved {
		return locked(ReasonEvolveLocked)
	}
	card := gs.Slot(a.Level, a.Index)
	if card == nil {
		return invalid(ReasonUnavailable)
	}
	p := gs.Active()
	base := FirstAffordableBase(p, card)
	if base == nil {
		return invalid(ReasonNoEvolveBase)
	}

	if !PayEvolutionCost(p, base, &gs.TokenPool) {
		return invalid(ReasonUnaffordable)
	}
	gs.takeFromSlot(a.Level, a.Index)
	ReplaceWithEvolution(p, base, card)
	e.finishEvolution(base, card)
	return applied()
}

func (e *Env) evolveReserved(a Action) StepInfo {
	gs := e.state
	if gs.PerTurn.Evolved {
		return locked(ReasonEvolveLocked)
	}
	p := gs.Active()
	idx := p.ReservedIndex(a.CardID)
	if idx < 0 {
		return invalid(ReasonUnavailable)
	}
	card := p.Reserved[idx]
	base := FirstAffordableBase(p, card)
	if base == nil {
		return invalid(ReasonNoEvolveBase)
	}

	if !PayEvolutionCost(p, base, &gs.TokenPool) {
		return invalid(ReasonUnaffordable)
	}
	p.RemoveReserved(idx)
	ReplaceWithEvolution(p, base, card)
	e.finishEvolution(base, card)
	return applied()
}

func (e *Env) finishEvolution(base, evolved *Card) {
	gs := e.state
	gs.PerTurn.Evolved = true
	depth := EvolutionDepth(base) + 1
	e.logger.Log(log.NewEvolveEvent(gs.Turn, gs.CurrentPlayer, base.String(), evolved.String(), depth))
	e.checkEndTrigger()
}

// --- Turn flow ---

// returnTokens moves count tokens of one color back to the bank. It is
// not phase-locked.
func (e *Env) returnTokens(a Action) StepInfo {
	gs := e.state
	p := gs.Active()
	if !a.Color.Valid() || a.Count <= 0 {
		return invalid(ReasonMalformed)
	}
	if p.Tokens[a.Color] < a.Count {
		return invalid(ReasonUnavailable)
	}

	p.Tokens[a.Color] -= a.Count
	gs.TokenPool[a.Color] += a.Count
	e.logger.Log(log.NewReturnTokensEvent(gs.Turn, gs.CurrentPlayer, a.Color.String(), a.Count))
	return applied()
}

func (e *Env) endTurn() StepInfo {
	gs := e.state
	if !gs.VictoryResolved && gs.PerTurn.Primary == PrimaryNone {
		return invalid(ReasonPrimaryRequired)
	}
	if TotalTokens(gs.Active()) > TokenLimit {
		return invalid(ReasonTokenLimit)
	}

	e.logger.Log(log.NewEndTurnEvent(gs.Turn, gs.CurrentPlayer))
	e.checkEndTrigger()
	if shouldResolveVictory(gs) {
		e.resolveVictory()
		return applied()
	}

	gs.CurrentPlayer = (gs.CurrentPlayer + 1) % len(gs.Players)
	if gs.CurrentPlayer == 0 {
		gs.Turn++
	}
	gs.PerTurn = PerTurn{}
	e.logger.Log(log.NewTurnEvent(gs.Turn, gs.CurrentPlayer))
	return applied()
}
