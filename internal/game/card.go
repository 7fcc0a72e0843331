package game

import "fmt"

// --- Card definition (static, from the catalog) ---

// CostItem is a {color, amount} pair used for costs, rewards and evolution costs.
type CostItem struct {
	Color  Color `json:"ball_color" yaml:"ball_color" mapstructure:"ball_color"`
	Number int   `json:"number" yaml:"number" mapstructure:"number"`
}

// Evolution names the card this one evolves into and what it costs.
type Evolution struct {
	Name string   `json:"name" yaml:"name" mapstructure:"name"`
	Cost CostItem `json:"cost" yaml:"cost" mapstructure:"cost"`
}

// Card is one card instance. Hand, reserved, market and deck entries are
// distinct *Card values; identity is pointer identity.
type Card struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Level     int        `json:"level"`
	Point     int        `json:"point"`
	Cost      []CostItem `json:"cost"`
	Reward    []CostItem `json:"reward,omitempty"` // zero or one entry in practice
	Evolution *Evolution `json:"evolution,omitempty"`

	// Stacked is the provenance stack: cards consumed by evolutions of this
	// hand slot, oldest first. Entries never carry their own stack.
	Stacked []Card `json:"stackedCards,omitempty"`
}

func (c *Card) String() string {
	if c == nil {
		return "(empty)"
	}
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// DisplayString returns a short description for the event log.
func (c *Card) DisplayString() string {
	if c == nil {
		return "(empty)"
	}
	return fmt.Sprintf("%s [L%d, %d pts]", c.String(), c.Level, c.Point)
}

// Clone returns a deep copy.
func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	out := *c
	out.Cost = append([]CostItem(nil), c.Cost...)
	out.Reward = append([]CostItem(nil), c.Reward...)
	if c.Evolution != nil {
		evo := *c.Evolution
		out.Evolution = &evo
	}
	if c.Stacked != nil {
		out.Stacked = make([]Card, len(c.Stacked))
		for i := range c.Stacked {
			out.Stacked[i] = *c.Stacked[i].Clone()
		}
	}
	return &out
}

// stripped returns a deep copy without the provenance stack.
func (c *Card) stripped() Card {
	out := c.Clone()
	out.Stacked = nil
	return *out
}

// CostVector sums the cost entries per color. Out-of-range colors are ignored.
func (c *Card) CostVector() Tokens {
	return sumItems(c.Cost)
}

// RewardVector sums every reward entry per color.
func (c *Card) RewardVector() Tokens {
	return sumItems(c.Reward)
}

// RewardEntry returns the card's standing bonus, if any.
func (c *Card) RewardEntry() (CostItem, bool) {
	if c == nil || len(c.Reward) == 0 {
		return CostItem{}, false
	}
	return c.Reward[0], true
}

// EvolvesInto reports whether this card can be replaced by evo.
func (c *Card) EvolvesInto(evo *Card) bool {
	return c != nil && evo != nil && c.Evolution != nil &&
		evo.Name != "" && c.Evolution.Name == evo.Name
}

func sumItems(items []CostItem) Tokens {
	var v Tokens
	for _, it := range items {
		if it.Color.Valid() {
			v[it.Color] += it.Number
		}
	}
	return v
}
