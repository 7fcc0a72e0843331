package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/peterkuimelis/evosplendor/internal/game"
)

var (
	ErrEmptyAction   = errors.New("empty action")
	ErrUnknownAction = errors.New("unknown action")
	ErrBadArgument   = errors.New("bad action argument")
)

// tagAliases are short forms accepted in addition to the wire tags.
var tagAliases = map[string]string{
	"take":             "take3",
	"reserve":          "reserve_market",
	"reserve_wildcard": "reserve_master",
	"buy":              "buy_market",
	"evolve":           "evolve_market",
	"return":           "return_tokens",
	"skip":             "skip_primary",
	"end":              "end_turn",
	"pass":             "end_turn",
}

// ParseAction reads an action from text. It accepts the space separated
// form ("take3 poke heal great", "buy_market 2 1", "buy_reserved <id>",
// "return_tokens master 2") as well as the output of game.Action.String.
// Card IDs keep their case; everything else is case-insensitive.
func ParseAction(text string) (game.Action, error) {
	fields := strings.Fields(strings.NewReplacer("(", " ", ")", " ", ",", " ", "#", " ").Replace(text))
	if len(fields) == 0 {
		return game.Action{}, ErrEmptyAction
	}

	tag := strings.ToLower(fields[0])
	if full, ok := tagAliases[tag]; ok {
		tag = full
	}
	typ, ok := game.ParseActionType(tag)
	if !ok {
		if hint := suggest(tag, game.ActionTags()); hint != "" {
			return game.Action{}, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownAction, fields[0], hint)
		}
		return game.Action{}, fmt.Errorf("%w %q", ErrUnknownAction, fields[0])
	}

	args := fields[1:]
	a := game.Action{Type: typ}
	var err error
	switch typ {
	case game.ActionTake3:
		if len(args) == 0 || len(args) > 3 {
			return game.Action{}, fmt.Errorf("%w: take3 needs 1-3 colors", ErrBadArgument)
		}
		for _, arg := range args {
			c, err := parseColor(arg)
			if err != nil {
				return game.Action{}, err
			}
			a.Colors = append(a.Colors, c)
		}

	case game.ActionTake2:
		if err = wantArgs(typ, args, 1); err != nil {
			return game.Action{}, err
		}
		a.Color, err = parseColor(args[0])

	case game.ActionReserveMarket, game.ActionBuyMarket, game.ActionEvolveMarket:
		if err = wantArgs(typ, args, 2); err != nil {
			return game.Action{}, err
		}
		if a.Level, err = parseLevel(args[0]); err != nil {
			return game.Action{}, err
		}
		a.Index, err = parseInt("slot", args[1])

	case game.ActionBuyReserved, game.ActionEvolveReserved:
		if err = wantArgs(typ, args, 1); err != nil {
			return game.Action{}, err
		}
		a.CardID = args[0]

	case game.ActionReturnTokens:
		if len(args) < 1 || len(args) > 2 {
			return game.Action{}, fmt.Errorf("%w: return_tokens needs a color and an optional count", ErrBadArgument)
		}
		if a.Color, err = parseColor(args[0]); err != nil {
			return game.Action{}, err
		}
		a.Count = 1
		if len(args) == 2 {
			a.Count, err = parseInt("count", strings.TrimPrefix(strings.ToLower(args[1]), "x"))
		}

	default:
		err = wantArgs(typ, args, 0)
	}
	if err != nil {
		return game.Action{}, err
	}
	return a, nil
}

func wantArgs(typ game.ActionType, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrBadArgument, typ, n, len(args))
	}
	return nil
}

func parseColor(s string) (game.Color, error) {
	name := strings.ToLower(s)
	if c, ok := game.ParseColor(name); ok {
		return c, nil
	}
	if n, err := strconv.Atoi(name); err == nil && game.Color(n).Valid() {
		return game.Color(n), nil
	}
	names := make([]string, game.NumColors)
	for c := range names {
		names[c] = game.Color(c).String()
	}
	if hint := suggest(name, names); hint != "" {
		return 0, fmt.Errorf("%w: unknown color %q (did you mean %q?)", ErrBadArgument, s, hint)
	}
	return 0, fmt.Errorf("%w: unknown color %q", ErrBadArgument, s)
}

// parseLevel accepts "2", "L2", or a bucket key such as "rare".
func parseLevel(s string) (int, error) {
	name := strings.ToLower(s)
	for level := 1; level <= game.NumLevels; level++ {
		if game.LevelKey(level) == name {
			return level, nil
		}
	}
	return parseInt("level", strings.TrimPrefix(name, "l"))
}

func parseInt(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrBadArgument, what, s)
	}
	return n, nil
}

// suggest returns the closest candidate within a length-scaled edit
// distance, or "".
func suggest(token string, candidates []string) string {
	best, bestDist := "", -1
	for _, cand := range candidates {
		if strings.HasPrefix(cand, token) && len(token) >= 2 {
			return cand
		}
		dist := levenshtein.ComputeDistance(token, cand)
		if dist > levenshteinLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	return best
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// MatchAction finds text among a legal action list, either as a 0-based
// index or as a parsed action. Reserved-card actions match on card ID.
func MatchAction(text string, legal []game.Action) (game.Action, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
		if n < 0 || n >= len(legal) {
			return game.Action{}, fmt.Errorf("%w: index %d out of range 0-%d", ErrBadArgument, n, len(legal)-1)
		}
		return legal[n], nil
	}
	a, err := ParseAction(text)
	if err != nil {
		return game.Action{}, err
	}
	for _, l := range legal {
		if sameAction(a, l) {
			return l, nil
		}
	}
	// Not in the legal list; the engine reports why.
	return a, nil
}

func sameAction(a, b game.Action) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case game.ActionTake3:
		if len(a.Colors) != len(b.Colors) {
			return false
		}
		seen := make(map[game.Color]bool, len(a.Colors))
		for _, c := range a.Colors {
			seen[c] = true
		}
		for _, c := range b.Colors {
			if !seen[c] {
				return false
			}
		}
		return true
	case game.ActionTake2:
		return a.Color == b.Color
	case game.ActionReserveMarket, game.ActionBuyMarket, game.ActionEvolveMarket:
		return a.Level == b.Level && a.Index == b.Index
	case game.ActionBuyReserved, game.ActionEvolveReserved:
		return a.CardID == b.CardID
	case game.ActionReturnTokens:
		return a.Color == b.Color && a.Count == b.Count
	default:
		return true
	}
}
