package domain

import (
	"errors"
	"fmt"
)

// Compatibility and lifecycle errors
var (
	ErrInvalidBloodType  = errors.New("invalid blood type")
	ErrInvalidStatus     = errors.New("invalid donor status")
	ErrInvalidEvent      = errors.New("invalid donor event")
	ErrIllegalTransition = errors.New("illegal status transition")
)

// TransitionError reports an event that is not allowed in the current status
type TransitionError struct {
	From  DonorStatus
	Event DonorEvent
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal status transition: %s on %s", e.Event, e.From)
}

// Is makes errors.Is(err, ErrIllegalTransition) hold
func (e *TransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}
