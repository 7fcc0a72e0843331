package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- NopLogger: drops everything (self-play default) ---

type NopLogger struct{}

func (NopLogger) Log(GameEvent)       {}
func (NopLogger) Events() []GameEvent { return nil }

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// Drain returns all buffered events and clears the buffer.
// Sequence numbers keep counting across drains.
func (l *MemoryLogger) Drain() []GameEvent {
	events := l.events
	l.events = nil
	return events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// playerName returns "P1", "P2", ... for display.
func playerName(p int) string {
	return fmt.Sprintf("P%d", p+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	kind := e.Type.String()
	for len(kind) < 16 {
		kind += " "
	}
	return fmt.Sprintf("T%-3d %s| %s", e.Turn, kind, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewResetEvent(players int, seeded bool, seed uint64) GameEvent {
	details := fmt.Sprintf("New game with %d players", players)
	if seeded {
		details += fmt.Sprintf(" (seed %d)", seed)
	}
	return GameEvent{
		Turn:    1,
		Type:    EventReset,
		Details: details,
	}
}

func NewTurnEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (%s) ===", turn, playerName(player)),
	}
}

func NewTakeTokensEvent(turn int, player int, colors []string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventTakeTokens,
		Details: fmt.Sprintf("%s takes %s", playerName(player), strings.Join(colors, ", ")),
	}
}

func NewReserveEvent(turn int, player int, cardName string, level int, wildcard bool) GameEvent {
	details := fmt.Sprintf("%s reserves %s from level %d", playerName(player), cardName, level)
	if wildcard {
		details += " and gains a wildcard"
	}
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventReserve,
		Card:    cardName,
		Details: details,
	}
}

func NewReserveWildcardEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventReserveWildcard,
		Details: fmt.Sprintf("%s takes a wildcard (reserve limit reached)", playerName(player)),
	}
}

func NewBuyEvent(turn int, player int, cardName string, source string, points int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventBuy,
		Card:    cardName,
		Details: fmt.Sprintf("%s buys %s from %s (%d pts)", playerName(player), cardName, source, points),
	}
}

func NewEvolveEvent(turn int, player int, baseName, evolvedName string, depth int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventEvolve,
		Card:    evolvedName,
		Details: fmt.Sprintf("%s evolves %s into %s (stack depth %d)", playerName(player), baseName, evolvedName, depth),
	}
}

func NewReturnTokensEvent(turn int, player int, color string, count int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventReturnTokens,
		Details: fmt.Sprintf("%s returns %d %s", playerName(player), count, color),
	}
}

func NewSkipPrimaryEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventSkipPrimary,
		Details: fmt.Sprintf("%s skips the primary action", playerName(player)),
	}
}

func NewEndTurnEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventEndTurn,
		Details: fmt.Sprintf("%s ends the turn", playerName(player)),
	}
}

func NewEndTriggeredEvent(turn int, player int, trophies int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventEndTriggered,
		Details: fmt.Sprintf("%s reached %d trophies, final round", playerName(player), trophies),
	}
}

func NewVictoryEvent(turn int, winner int, trophies int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  winner,
		Type:    EventVictory,
		Details: fmt.Sprintf("%s wins with %d trophies", playerName(winner), trophies),
	}
}

func NewRejectedEvent(turn int, player int, action string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventRejected,
		Details: fmt.Sprintf("%s: %s rejected (%s)", playerName(player), action, reason),
	}
}
