package view

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/peterkuimelis/evosplendor/internal/game"
)

// colorOrder lists color names in token order for stable text output.
var colorOrder = func() []string {
	names := make([]string, game.NumColors)
	for c := range names {
		names[c] = game.Color(c).String()
	}
	return names
}()

func formatItem(it game.CostItem) string {
	return fmt.Sprintf("%d %s", it.Number, it.Color)
}

// formatColors renders a color-keyed map in token order, e.g. "2 poke 1 master".
func formatColors(m map[string]int) string {
	if len(m) == 0 {
		return "-"
	}
	var parts []string
	for _, name := range colorOrder {
		if n, ok := m[name]; ok && n != 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, name))
		}
	}
	// Unknown keys last, sorted.
	var extra []string
	for name := range m {
		if !isColorName(name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		parts = append(parts, fmt.Sprintf("%d %s", m[name], name))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func isColorName(name string) bool {
	for _, n := range colorOrder {
		if n == name {
			return true
		}
	}
	return false
}

// FormatCard renders a card slot on one line.
func FormatCard(cv CardView) string {
	if cv.Empty {
		return "[ ]"
	}
	s := fmt.Sprintf("[%s %dpt | cost %s", cv.Name, cv.Point, formatColors(cv.Cost))
	if len(cv.Reward) > 0 {
		s += " | +" + formatColors(cv.Reward)
	}
	if cv.EvolvesTo != "" {
		s += fmt.Sprintf(" | -> %s (%s)", cv.EvolvesTo, cv.EvoCost)
	}
	if cv.Stacked > 0 {
		s += fmt.Sprintf(" | x%d", cv.Stacked)
	}
	return s + "]"
}

// RenderState writes a text board for sv.
func RenderState(w io.Writer, sv *StateView) {
	if sv == nil {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════╗")
	for _, opp := range sv.Opponents {
		fmt.Fprintf(w, "║  %s  Trophies: %d  Cards: %d  Reserved: %d\n",
			opp.Name, opp.Trophies, opp.HandCount, opp.ReservedCount)
		fmt.Fprintf(w, "║    Tokens: %s  Bonus: %s\n", formatColors(opp.Tokens), formatColors(opp.Bonus))
	}

	fmt.Fprintln(w, "║──────────────────────────────────────────────────────")
	for _, row := range sv.Market {
		fmt.Fprintf(w, "║  %-8s (%2d left) ", row.Key, row.DeckCount)
		for _, slot := range row.Slots {
			fmt.Fprintf(w, "%s ", FormatCard(slot))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "║  Bank: %s\n", formatColors(sv.Pool))
	fmt.Fprintln(w, "║──────────────────────────────────────────────────────")

	you := sv.You
	fmt.Fprintf(w, "║  YOU (%s)  Trophies: %d  Penalty: %d\n", you.Name, you.Trophies, you.Penalty)
	fmt.Fprintf(w, "║    Tokens: %s  Bonus: %s\n", formatColors(you.Tokens), formatColors(you.Bonus))
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════╝")

	turnInfo := fmt.Sprintf("Turn %d | Player %d to act", sv.Turn, sv.CurrentPlayer+1)
	if sv.IsYourTurn {
		turnInfo += " | Your turn"
	}
	if sv.Primary != "" {
		turnInfo += " | primary: " + sv.Primary
	}
	if sv.EndTriggered {
		turnInfo += fmt.Sprintf(" | final round (turn %d)", sv.TriggerTurn)
	}
	fmt.Fprintln(w, turnInfo)

	if len(you.Hand) > 0 {
		fmt.Fprintf(w, "\nHand: ")
		for i, cv := range you.Hand {
			fmt.Fprintf(w, "(%d) %s  ", i+1, FormatCard(cv))
		}
		fmt.Fprintln(w)
	}
	if len(you.Reserved) > 0 {
		fmt.Fprintf(w, "Reserved: ")
		for _, cv := range you.Reserved {
			fmt.Fprintf(w, "%s {%s}  ", FormatCard(cv), cv.ID)
		}
		fmt.Fprintln(w)
	}
}

// RenderActions writes a 1-based numbered action menu.
func RenderActions(w io.Writer, actions []ActionView) {
	fmt.Fprintln(w, "\nActions:")
	for _, a := range actions {
		fmt.Fprintf(w, "  %d) %s\n", a.Index+1, a.Desc)
	}
}

// RenderEvent writes one event line in the text logger's layout.
func RenderEvent(w io.Writer, ev EventView) {
	fmt.Fprintf(w, "T%-3d %-16s| %s\n", ev.Turn, ev.Type, ev.Details)
}
