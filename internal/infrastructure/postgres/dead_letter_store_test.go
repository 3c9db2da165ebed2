package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
)

func TestDeadLetterStoreWritesOneRowPerEvent(t *testing.T) {
	db := &fakeDB{}
	store := NewDeadLetterStore(db)

	u := mustUser(t, "dead@example.com")
	if err := u.Deactivate("left"); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	events := u.DrainEvents()
	failed := make([]repository.FailedEvent, 0, len(events))
	for _, ev := range events {
		failed = append(failed, repository.FailedEvent{Event: ev, Err: errors.New("queue unavailable")})
	}

	if err := store.Store(context.Background(), failed); err != nil {
		t.Fatalf("Store: %v", err)
	}
	execs := db.Execs()
	if len(execs) != 2 {
		t.Fatalf("inserts = %d, want 2", len(execs))
	}
	for i, call := range execs {
		if !strings.Contains(call.sql, "domain_event_dead_letters") {
			t.Fatalf("unexpected statement %q", call.sql)
		}
		if call.args[1] != events[i].EventName() {
			t.Fatalf("event_name = %v, want %s", call.args[1], events[i].EventName())
		}
		var payload map[string]any
		if err := json.Unmarshal(call.args[3].([]byte), &payload); err != nil {
			t.Fatalf("payload is not JSON: %v", err)
		}
		if payload["event_id"] != events[i].EventID().String() {
			t.Fatalf("payload event_id = %v", payload["event_id"])
		}
		if call.args[4] != "queue unavailable" {
			t.Fatalf("error column = %v", call.args[4])
		}
	}
	if events[1].EventName() != entity.EventUserDeactivated {
		t.Fatalf("second event = %s", events[1].EventName())
	}
}

func TestDeadLetterStoreMapsInsertFailure(t *testing.T) {
	db := &fakeDB{ExecFn: func(string, []any) (pgconn.CommandTag, error) {
		return pgconn.CommandTag{}, &pgconn.PgError{Code: "42P01"}
	}}
	u := mustUser(t, "broken@example.com")
	failed := []repository.FailedEvent{{Event: u.DrainEvents()[0], Err: errors.New("x")}}

	err := NewDeadLetterStore(db).Store(context.Background(), failed)
	if !shared.IsCode(err, shared.CodeInternal) {
		t.Fatalf("err = %v, want internal", err)
	}
}
