package log

import (
	"github.com/rs/zerolog"
)

// ZerologLogger forwards every event to a zerolog.Logger as a structured
// record while keeping the in-memory history.
type ZerologLogger struct {
	MemoryLogger
	logger zerolog.Logger
	level  zerolog.Level
}

// NewZerologLogger writes events at the given level.
func NewZerologLogger(logger zerolog.Logger, level zerolog.Level) *ZerologLogger {
	return &ZerologLogger{logger: logger, level: level}
}

func (l *ZerologLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	last := l.LastEvent()
	ev := l.logger.WithLevel(l.level).
		Int("seq", last.Seq).
		Int("turn", last.Turn).
		Int("player", last.Player).
		Str("event", last.Type.String())
	if last.Card != "" {
		ev = ev.Str("card", last.Card)
	}
	ev.Msg(last.Details)
}
