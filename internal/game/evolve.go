package game

// ReplaceWithEvolution swaps base (located by identity in p's hand) for a
// copy of template. The new card's provenance stack is base's own stack
// followed by base itself, each entry stripped of nested stacks. Returns
// false and leaves the hand untouched if base isn't in hand.
func ReplaceWithEvolution(p *PlayerState, base, template *Card) bool {
	idx := p.HandIndex(base)
	if idx < 0 || template == nil {
		return false
	}

	stack := make([]Card, 0, len(base.Stacked)+1)
	for i := range base.Stacked {
		stack = append(stack, base.Stacked[i].stripped())
	}
	stack = append(stack, base.stripped())

	evolved := template.Clone()
	evolved.Stacked = stack
	p.Hand[idx] = evolved
	return true
}

// EvolutionDepth returns how many evolutions produced this hand slot.
func EvolutionDepth(c *Card) int {
	if c == nil {
		return 0
	}
	return len(c.Stacked)
}
