package eventbus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
)

// ObjectStore writes a single object.
type ObjectStore interface {
	Put(ctx context.Context, objectPath, contentType string, r io.Reader) error
}

type auditRecord struct {
	EventID     uuid.UUID          `json:"event_id"`
	EventName   string             `json:"event_name"`
	AggregateID uuid.UUID          `json:"aggregate_id"`
	OccurredOn  time.Time          `json:"occurred_on"`
	Payload     shared.DomainEvent `json:"payload"`
}

// AuditArchiver stores every event it receives as one JSON object, laid out
// as <prefix>/<event name>/<yyyy>/<mm>/<dd>/<event id>.json.
type AuditArchiver struct {
	store  ObjectStore
	prefix string
}

func NewAuditArchiver(store ObjectStore, prefix string) *AuditArchiver {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "audit"
	}
	return &AuditArchiver{store: store, prefix: prefix}
}

func (h *AuditArchiver) ObjectPath(ev shared.DomainEvent) string {
	return path.Join(h.prefix, ev.EventName(), ev.OccurredOn().UTC().Format("2006/01/02"), ev.EventID().String()+".json")
}

func (h *AuditArchiver) Handle(ctx context.Context, ev shared.DomainEvent) error {
	b, err := json.Marshal(auditRecord{
		EventID:     ev.EventID(),
		EventName:   ev.EventName(),
		AggregateID: ev.AggregateID(),
		OccurredOn:  ev.OccurredOn(),
		Payload:     ev,
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", ev.EventName(), err)
	}
	return h.store.Put(ctx, h.ObjectPath(ev), "application/json", bytes.NewReader(b))
}
