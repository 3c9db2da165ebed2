package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
)

// DeadLetterStore records undelivered domain events in
// domain_event_dead_letters so they can be replayed by an operator.
type DeadLetterStore struct {
	db  DBTX
	now func() time.Time
}

func NewDeadLetterStore(db DBTX) *DeadLetterStore {
	return &DeadLetterStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *DeadLetterStore) Store(ctx context.Context, failed []repository.FailedEvent) error {
	failedAt := s.now()
	for _, f := range failed {
		payload, err := json.Marshal(f.Event)
		if err != nil {
			return fmt.Errorf("encode %s: %w", f.Event.EventName(), err)
		}
		_, err = s.db.Exec(ctx, `
			INSERT INTO domain_event_dead_letters (event_id, event_name, aggregate_id, payload, error, occurred_at, failed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (event_id) DO NOTHING
		`, f.Event.EventID(), f.Event.EventName(), f.Event.AggregateID(), payload, f.Err.Error(), f.Event.OccurredOn(), failedAt)
		if err != nil {
			return MapError("dead_letters.insert", err)
		}
	}
	return nil
}

var _ DeadLetterSink = (*DeadLetterStore)(nil)
