package game

// CardVectorLen is the length of an encoded card: level, point, 6 costs, 6 rewards.
const CardVectorLen = 2 + 2*NumColors

// CardVector is the numeric encoding of a card slot.
type CardVector [CardVectorLen]float64

// EncodeCard packs a card into a fixed-length vector without identifiers or
// text. A nil card encodes as all zeros.
func EncodeCard(c *Card) CardVector {
	var v CardVector
	if c == nil {
		return v
	}
	v[0] = float64(c.Level)
	v[1] = float64(c.Point)
	cost := c.CostVector()
	reward := c.RewardVector()
	for i := 0; i < NumColors; i++ {
		v[2+i] = float64(cost[i])
		v[2+NumColors+i] = float64(reward[i])
	}
	return v
}

// encodeSlots encodes a market row or reserved list into fresh storage.
func encodeSlots(cards []*Card) []CardVector {
	out := make([]CardVector, len(cards))
	for i, c := range cards {
		out[i] = EncodeCard(c)
	}
	return out
}
