package eventbus

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
)

var (
	dispatchedEvents = expvar.NewMap("domain_events_dispatched")
	handlerFailures  = expvar.NewMap("domain_event_handler_failures")
)

// Handler reacts to one domain event.
type Handler interface {
	Handle(ctx context.Context, ev shared.DomainEvent) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, ev shared.DomainEvent) error

func (f HandlerFunc) Handle(ctx context.Context, ev shared.DomainEvent) error { return f(ctx, ev) }

type subscription struct {
	name    string
	handler Handler
}

// Dispatcher delivers events in-process to the handlers subscribed to their
// name. Handlers run one after another in subscription order; every handler
// runs even when an earlier one fails.
type Dispatcher struct {
	mu     sync.RWMutex
	subs   map[string][]subscription
	logger *logrus.Logger
}

func NewDispatcher(logger *logrus.Logger) *Dispatcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Dispatcher{subs: map[string][]subscription{}, logger: logger}
}

// Subscribe registers h under name for each of events.
func (d *Dispatcher) Subscribe(name string, h Handler, events ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, ev := range events {
		d.subs[ev] = append(d.subs[ev], subscription{name: name, handler: h})
	}
}

// Handlers lists the handler names subscribed to event.
func (d *Dispatcher) Handlers(event string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.subs[event]))
	for _, s := range d.subs[event] {
		out = append(out, s.name)
	}
	return out
}

func (d *Dispatcher) Dispatch(ctx context.Context, ev shared.DomainEvent) error {
	d.mu.RLock()
	subs := append([]subscription(nil), d.subs[ev.EventName()]...)
	d.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		if err := s.handler.Handle(ctx, ev); err != nil {
			handlerFailures.Add(s.name, 1)
			d.logger.WithError(err).WithFields(logrus.Fields{
				"event":    ev.EventName(),
				"event_id": ev.EventID().String(),
				"handler":  s.name,
			}).Warn("event handler failed")
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	dispatchedEvents.Add(ev.EventName(), 1)
	return errors.Join(errs...)
}

var _ shared.EventDispatcher = (*Dispatcher)(nil)
