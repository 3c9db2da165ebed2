package repository

import (
	"fmt"
	"strings"

	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
)

// FailedEvent is an event whose post-commit delivery failed.
type FailedEvent struct {
	Event shared.DomainEvent
	Err   error
}

// DispatchError reports events that could not be delivered after the
// transaction committed. The persisted state is not affected.
type DispatchError struct {
	Failed []FailedEvent
}

func (e *DispatchError) Error() string {
	names := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		names = append(names, fmt.Sprintf("%s %s: %v", f.Event.EventName(), f.Event.EventID(), f.Err))
	}
	return fmt.Sprintf("dispatch failed for %d event(s): %s", len(e.Failed), strings.Join(names, "; "))
}

func (e *DispatchError) Unwrap() []error {
	out := make([]error, 0, len(e.Failed))
	for _, f := range e.Failed {
		out = append(out, f.Err)
	}
	return out
}
