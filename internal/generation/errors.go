package generation

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a generation failure
type ErrorKind string

const (
	KindInvalidConfig         ErrorKind = "invalid_config"
	KindUnreachableRooms      ErrorKind = "unreachable_rooms"
	KindInsufficientRoomCount ErrorKind = "insufficient_room_count"
	KindDeadEndRatioExceeded  ErrorKind = "dead_end_ratio_exceeded"
	KindOverlappingRooms      ErrorKind = "overlapping_rooms"
	KindRetryBudgetExceeded   ErrorKind = "retry_budget_exceeded"
)

// Sentinels for errors.Is
var (
	ErrInvalidConfig         = errors.New("invalid config")
	ErrUnreachableRooms      = errors.New("unreachable rooms")
	ErrInsufficientRoomCount = errors.New("insufficient room count")
	ErrDeadEndRatioExceeded  = errors.New("dead-end ratio exceeded")
	ErrOverlappingRooms      = errors.New("overlapping rooms")
	ErrRetryBudgetExceeded   = errors.New("retry budget exceeded")
)

var kindSentinels = map[ErrorKind]error{
	KindInvalidConfig:         ErrInvalidConfig,
	KindUnreachableRooms:      ErrUnreachableRooms,
	KindInsufficientRoomCount: ErrInsufficientRoomCount,
	KindDeadEndRatioExceeded:  ErrDeadEndRatioExceeded,
	KindOverlappingRooms:      ErrOverlappingRooms,
	KindRetryBudgetExceeded:   ErrRetryBudgetExceeded,
}

// GenerationError is the structured failure returned by the generator
type GenerationError struct {
	Kind     ErrorKind
	Reason   string
	Attempts int   // attempts made before giving up, zero for config errors
	Err      error // underlying cause, e.g. the last validation failure
}

func (e *GenerationError) Error() string {
	msg := fmt.Sprintf("generation failed (%s): %s", e.Kind, e.Reason)
	if e.Attempts > 0 {
		msg = fmt.Sprintf("%s after %d attempts", msg, e.Attempts)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the underlying cause
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind
func (e *GenerationError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// Recoverable reports whether a retry with a new seed might succeed
func (e *GenerationError) Recoverable() bool {
	switch e.Kind {
	case KindUnreachableRooms, KindInsufficientRoomCount, KindDeadEndRatioExceeded, KindOverlappingRooms:
		return true
	}
	return false
}

func newError(kind ErrorKind, format string, args ...any) *GenerationError {
	return &GenerationError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}
