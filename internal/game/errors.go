package game

import "errors"

// Usage errors. Rule violations are never errors; they come back as a
// rejected StepResult.
var (
	ErrNotReset           = errors.New("game: reset must be called first")
	ErrInvalidPlayerIndex = errors.New("game: invalid player index")
	ErrInvalidPlayerCount = errors.New("game: at least 2 players required")
)
