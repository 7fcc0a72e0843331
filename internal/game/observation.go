package game

// PlayerObservation is the requesting player's own numeric summary.
type PlayerObservation struct {
	Tokens      Tokens `json:"tokens"`
	RewardBonus Tokens `json:"reward_bonus"`
	Trophies    int    `json:"trophies"`
	HandSize    int    `json:"hand_size"`
}

// MarketObservation holds the encoded face-up slots per level.
type MarketObservation struct {
	Level1 []CardVector `json:"level_1"`
	Level2 []CardVector `json:"level_2"`
	Level3 []CardVector `json:"level_3"`
	Rare   []CardVector `json:"rare"`
	Legend []CardVector `json:"legend"`
}

// Level returns the encoded row for a level (1-5), or nil.
func (m MarketObservation) Level(level int) []CardVector {
	switch level {
	case Level1:
		return m.Level1
	case Level2:
		return m.Level2
	case Level3:
		return m.Level3
	case LevelRare:
		return m.Rare
	case LevelLegend:
		return m.Legend
	}
	return nil
}

// Observation is a numeric-only view for one player. It owns all of its
// storage; mutating it has no effect on the engine.
type Observation struct {
	Turn          int               `json:"turn"`
	CurrentPlayer int               `json:"current_player"`
	PlayerIndex   int               `json:"player_index"`
	Player        PlayerObservation `json:"player"`
	Market        MarketObservation `json:"market"`
	Reserved      []CardVector      `json:"reserved"`
}

// Observe builds the observation for playerIndex.
func (e *Env) Observe(playerIndex int) (Observation, error) {
	if e.state == nil {
		return Observation{}, ErrNotReset
	}
	gs := e.state
	if playerIndex < 0 || playerIndex >= len(gs.Players) {
		return Observation{}, ErrInvalidPlayerIndex
	}
	p := gs.Players[playerIndex]

	return Observation{
		Turn:          gs.Turn,
		CurrentPlayer: gs.CurrentPlayer,
		PlayerIndex:   playerIndex,
		Player: PlayerObservation{
			Tokens:      p.Tokens,
			RewardBonus: RewardBonus(p),
			Trophies:    TotalTrophies(p),
			HandSize:    VisibleCardCount(p),
		},
		Market: MarketObservation{
			Level1: encodeSlots(gs.Market[0]),
			Level2: encodeSlots(gs.Market[1]),
			Level3: encodeSlots(gs.Market[2]),
			Rare:   encodeSlots(gs.Market[3]),
			Legend: encodeSlots(gs.Market[4]),
		},
		Reserved: encodeSlots(p.Reserved),
	}, nil
}
