package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is an immutable fact raised by an aggregate.
type DomainEvent interface {
	EventID() uuid.UUID
	OccurredOn() time.Time
	EventName() string
	AggregateID() uuid.UUID
}

// EventBase carries the metadata shared by every event. Events are passed
// by value so a receiver can never alter the original.
type EventBase struct {
	ID         uuid.UUID `json:"event_id"`
	OccurredAt time.Time `json:"occurred_on"`
}

// NewEventBase stamps a fresh identifier and the current UTC time.
func NewEventBase(env Env) (EventBase, error) {
	id, err := env.NewID()
	if err != nil {
		return EventBase{}, err
	}
	return EventBase{ID: id, OccurredAt: env.Now()}, nil
}

func (b EventBase) EventID() uuid.UUID { return b.ID }

func (b EventBase) OccurredOn() time.Time { return b.OccurredAt }

// EventDispatcher delivers a single event to its subscribers.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event DomainEvent) error
}

// EventSource is an aggregate that accumulates events.
type EventSource interface {
	DrainEvents() []DomainEvent
}

// EventQueue is the ordered list of events an aggregate has raised but not
// yet handed off. Aggregates keep it in an unexported field so that only
// their own methods can record.
type EventQueue struct {
	pending []DomainEvent
}

// Record appends an event.
func (q *EventQueue) Record(e DomainEvent) {
	q.pending = append(q.pending, e)
}

// Drain returns all pending events in insertion order and empties the
// queue. A second call returns an empty slice.
func (q *EventQueue) Drain() []DomainEvent {
	out := q.pending
	q.pending = nil
	if out == nil {
		return []DomainEvent{}
	}
	return out
}

// Pending returns a copy of the queued events without removing them.
func (q *EventQueue) Pending() []DomainEvent {
	out := make([]DomainEvent, len(q.pending))
	copy(out, q.pending)
	return out
}

func (q *EventQueue) Len() int { return len(q.pending) }
