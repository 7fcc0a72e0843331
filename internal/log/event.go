package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventReset EventType = iota
	EventNewTurn
	EventTakeTokens
	EventReserve
	EventReserveWildcard
	EventBuy
	EventEvolve
	EventReturnTokens
	EventSkipPrimary
	EventEndTurn
	EventEndTriggered
	EventVictory
	EventRejected // action refused without touching state
)

func (e EventType) String() string {
	switch e {
	case EventReset:
		return "Reset"
	case EventNewTurn:
		return "NewTurn"
	case EventTakeTokens:
		return "TakeTokens"
	case EventReserve:
		return "Reserve"
	case EventReserveWildcard:
		return "ReserveWildcard"
	case EventBuy:
		return "Buy"
	case EventEvolve:
		return "Evolve"
	case EventReturnTokens:
		return "ReturnTokens"
	case EventSkipPrimary:
		return "SkipPrimary"
	case EventEndTurn:
		return "EndTurn"
	case EventEndTriggered:
		return "EndTriggered"
	case EventVictory:
		return "Victory"
	case EventRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in an episode.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (1-based)
	Player  int       // acting seat (0-based)
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Details string    // human-readable detail string
}
