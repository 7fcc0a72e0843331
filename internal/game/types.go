package game

import (
	"fmt"
	"strings"
)

// --- Colors ---

// NumColors is the number of token classes, wildcard included.
const NumColors = 6

// Color is a token class. Index 5 is the universal wildcard.
type Color int

const (
	ColorPoke Color = iota
	ColorHeal
	ColorGreat
	ColorQuick
	ColorUltra
	Wildcard // "master"
)

func (c Color) String() string {
	switch c {
	case ColorPoke:
		return "poke"
	case ColorHeal:
		return "heal"
	case ColorGreat:
		return "great"
	case ColorQuick:
		return "quick"
	case ColorUltra:
		return "ultra"
	case Wildcard:
		return "master"
	default:
		return fmt.Sprintf("color(%d)", int(c))
	}
}

// Valid reports whether c names one of the six token classes.
func (c Color) Valid() bool {
	return c >= 0 && c < NumColors
}

// Tokens holds one count per color.
type Tokens [NumColors]int

// Total returns the sum over all colors.
func (t Tokens) Total() int {
	n := 0
	for _, v := range t {
		n += v
	}
	return n
}

// --- Levels ---

// NumLevels is the number of deck/market tiers.
const NumLevels = 5

const (
	Level1      = 1
	Level2      = 2
	Level3      = 3
	LevelRare   = 4
	LevelLegend = 5
)

// marketSlots is the fixed number of face-up slots per level.
var marketSlots = [NumLevels]int{4, 4, 4, 1, 1}

// levelKeys are the catalog bucket names, indexed by level-1.
var levelKeys = [NumLevels]string{"level_1", "level_2", "level_3", "rare", "legend"}

// LevelKey returns the catalog bucket name for a level.
func LevelKey(level int) string {
	if level < 1 || level > NumLevels {
		return ""
	}
	return levelKeys[level-1]
}

// --- Turn phase ---

// PrimaryAction records which main move the active player used this turn.
type PrimaryAction int

const (
	PrimaryNone PrimaryAction = iota
	PrimaryTake3
	PrimaryTake2
	PrimaryReserve
	PrimaryBuy
	PrimarySkip
)

func (p PrimaryAction) String() string {
	switch p {
	case PrimaryTake3:
		return "take3"
	case PrimaryTake2:
		return "take2"
	case PrimaryReserve:
		return "reserve"
	case PrimaryBuy:
		return "buy"
	case PrimarySkip:
		return "skip"
	default:
		return ""
	}
}

// PerTurn holds the once-per-turn locks.
type PerTurn struct {
	Primary PrimaryAction `json:"primary_action"`
	Evolved bool          `json:"evolved"`
}

// --- Action types ---

type ActionType int

const (
	ActionNone ActionType = iota // zero value, never legal
	ActionTake3
	ActionTake2
	ActionReserveMarket
	ActionReserveWildcard
	ActionBuyMarket
	ActionBuyReserved
	ActionEvolveMarket
	ActionEvolveReserved
	ActionReturnTokens
	ActionSkipPrimary
	ActionEndTurn
)

// actionTags maps each action kind to its wire tag.
var actionTags = map[ActionType]string{
	ActionTake3:           "take3",
	ActionTake2:           "take2",
	ActionReserveMarket:   "reserve_market",
	ActionReserveWildcard: "reserve_master",
	ActionBuyMarket:       "buy_market",
	ActionBuyReserved:     "buy_reserved",
	ActionEvolveMarket:    "evolve_market",
	ActionEvolveReserved:  "evolve_reserved",
	ActionReturnTokens:    "return_tokens",
	ActionSkipPrimary:     "skip_primary",
	ActionEndTurn:         "end_turn",
}

func (a ActionType) String() string {
	if tag, ok := actionTags[a]; ok {
		return tag
	}
	return "unknown"
}

// MarshalText encodes the wire tag.
func (a ActionType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes a wire tag.
func (a *ActionType) UnmarshalText(text []byte) error {
	t, ok := ParseActionType(string(text))
	if !ok {
		return fmt.Errorf("unknown action type %q", text)
	}
	*a = t
	return nil
}

// IsPrimary reports whether the action consumes the primary-action lock.
func (a ActionType) IsPrimary() bool {
	switch a {
	case ActionTake3, ActionTake2, ActionReserveMarket, ActionReserveWildcard,
		ActionBuyMarket, ActionBuyReserved, ActionSkipPrimary:
		return true
	}
	return false
}

// ActionTypes returns every recognized action kind in declaration order.
func ActionTypes() []ActionType {
	types := make([]ActionType, 0, len(actionTags))
	for t := ActionTake3; t <= ActionEndTurn; t++ {
		types = append(types, t)
	}
	return types
}

// ParseActionType resolves a wire tag.
func ParseActionType(tag string) (ActionType, bool) {
	for t, s := range actionTags {
		if s == tag {
			return t, true
		}
	}
	return ActionNone, false
}

// ActionTags returns all wire tags in declaration order.
func ActionTags() []string {
	tags := make([]string, 0, len(actionTags))
	for _, t := range ActionTypes() {
		tags = append(tags, t.String())
	}
	return tags
}

// Action is a tagged action descriptor. Only the fields relevant to Type are read.
type Action struct {
	Type   ActionType `json:"type"`
	Colors []Color    `json:"colors,omitempty"` // take3
	Color  Color      `json:"color,omitempty"`  // take2, return_tokens
	Count  int        `json:"count,omitempty"`  // return_tokens
	Level  int        `json:"level,omitempty"`  // *_market
	Index  int        `json:"index,omitempty"`  // market slot; reserved position for *_reserved (informational)
	CardID string     `json:"card_id,omitempty"`
}

func (a Action) String() string {
	switch a.Type {
	case ActionTake3:
		names := make([]string, len(a.Colors))
		for i, c := range a.Colors {
			names[i] = c.String()
		}
		return fmt.Sprintf("take3(%s)", strings.Join(names, ","))
	case ActionTake2:
		return fmt.Sprintf("take2(%s)", a.Color)
	case ActionReserveMarket, ActionBuyMarket, ActionEvolveMarket:
		return fmt.Sprintf("%s(L%d#%d)", a.Type, a.Level, a.Index)
	case ActionBuyReserved, ActionEvolveReserved:
		return fmt.Sprintf("%s(%s)", a.Type, a.CardID)
	case ActionReturnTokens:
		return fmt.Sprintf("return_tokens(%s x%d)", a.Color, a.Count)
	default:
		return a.Type.String()
	}
}

// --- Step results ---

// Rejection reasons reported in StepInfo.Reason.
const (
	ReasonPrimaryLocked = "primary_locked"
	ReasonEvolveLocked  = "evolve_locked"
	ReasonTokenLimit    = "over_token_limit"
	ReasonUnknownAction = "unknown_action"
	ReasonMalformed     = "malformed"
	ReasonUnavailable   = "unavailable"
	ReasonUnaffordable  = "unaffordable"
	ReasonNoEvolveBase  = "no_eligible_base"
)

// StepInfo describes what happened to the submitted action.
type StepInfo struct {
	Applied bool        `json:"applied"`
	Invalid bool        `json:"invalid_action,omitempty"`
	Reason  string      `json:"reason,omitempty"`
	Ranking []RankEntry `json:"ranking,omitempty"` // set on the terminal transition
}

// StepResult is the outcome of Env.Step.
type StepResult struct {
	State   *GameState
	Rewards []int
	Done    bool
	Info    StepInfo
}

// RankEntry is one line of the final standings.
type RankEntry struct {
	PlayerIndex int `json:"player_index"`
	Trophies    int `json:"trophies"`
	Penalty     int `json:"penalty"`
	TrophyCards int `json:"trophy_cards"`
}
