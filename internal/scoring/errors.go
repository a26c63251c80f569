package scoring

import (
	"errors"
	"fmt"
)

var (
	// ErrMatchClosed is returned when a ball or crease change targets a completed or cancelled match.
	ErrMatchClosed = errors.New("match closed")
	// ErrInvalidBall marks a malformed ball event.
	ErrInvalidBall = errors.New("invalid ball")
	// ErrInvalidLineup marks a side with no eligible players.
	ErrInvalidLineup = errors.New("invalid lineup")
	// ErrInvalidCrease marks an impossible striker / non-striker / bowler assignment.
	ErrInvalidCrease = errors.New("invalid crease")
	// ErrInningDiverged means cached totals no longer match the ball history.
	ErrInningDiverged = errors.New("inning totals diverged from history")
)

// InvalidLineupError names the side that has nobody to field.
type InvalidLineupError struct {
	Side Side
}

func (e *InvalidLineupError) Error() string {
	return fmt.Sprintf("%s: %s lineup is empty", ErrInvalidLineup, e.Side)
}

func (e *InvalidLineupError) Unwrap() error { return ErrInvalidLineup }
