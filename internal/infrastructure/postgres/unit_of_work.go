package postgres

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

const deadLetterTimeout = 5 * time.Second

// WriteFunc persists one aggregate inside the unit's transaction and
// returns the number of rows it changed.
type WriteFunc func(ctx context.Context, q DBTX) (int64, error)

// DeadLetterSink keeps events whose dispatch failed after commit.
type DeadLetterSink interface {
	Store(ctx context.Context, failed []repository.FailedEvent) error
}

type trackedAggregate struct {
	agg   shared.EventSource
	write WriteFunc
}

// UnitOfWork batches aggregate writes into one transaction and dispatches
// the aggregates' events once that transaction has committed. A unit
// belongs to a single request and is not safe for concurrent use.
type UnitOfWork struct {
	runner      TxRunner
	dispatcher  shared.EventDispatcher
	deadLetters DeadLetterSink
	logger      *logrus.Logger

	tracked []trackedAggregate
}

func NewUnitOfWork(runner TxRunner, dispatcher shared.EventDispatcher, deadLetters DeadLetterSink, logger *logrus.Logger) *UnitOfWork {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UnitOfWork{runner: runner, dispatcher: dispatcher, deadLetters: deadLetters, logger: logger}
}

// Track registers agg for the next save. An aggregate already tracked keeps
// its original position and write; the write reads the aggregate's state
// when the save runs.
func (u *UnitOfWork) Track(agg shared.EventSource, write WriteFunc) {
	for _, t := range u.tracked {
		if t.agg == agg {
			return
		}
	}
	u.tracked = append(u.tracked, trackedAggregate{agg: agg, write: write})
}

// Tracked reports how many aggregates are waiting to be saved.
func (u *UnitOfWork) Tracked() int { return len(u.tracked) }

// SaveAndDispatch writes every tracked aggregate in one transaction. When
// the transaction fails nothing is drained and the aggregates stay
// tracked. After commit the event queues are drained in tracking order and
// each event is dispatched once, in order. Dispatch failures are returned
// as *repository.DispatchError alongside the committed result.
func (u *UnitOfWork) SaveAndDispatch(ctx context.Context) (bool, error) {
	if len(u.tracked) == 0 {
		return false, nil
	}

	var rows int64
	err := u.runner.InTx(ctx, func(ctx context.Context, q DBTX) error {
		rows = 0
		for _, t := range u.tracked {
			n, err := t.write(ctx, q)
			if err != nil {
				return err
			}
			rows += n
		}
		return nil
	})
	if err != nil {
		return false, MapError("unit_of_work.save", err)
	}

	var events []shared.DomainEvent
	for _, t := range u.tracked {
		events = append(events, t.agg.DrainEvents()...)
	}
	u.tracked = nil

	changed := rows > 0
	if err := u.dispatch(ctx, events); err != nil {
		return changed, err
	}
	return changed, nil
}

func (u *UnitOfWork) dispatch(ctx context.Context, events []shared.DomainEvent) error {
	var failed []repository.FailedEvent
	for _, ev := range events {
		err := ctx.Err()
		if err == nil && u.dispatcher != nil {
			err = u.dispatcher.Dispatch(ctx, ev)
		}
		if err != nil {
			u.logger.WithError(err).WithFields(logrus.Fields{
				"event":        ev.EventName(),
				"event_id":     ev.EventID().String(),
				"aggregate_id": ev.AggregateID().String(),
			}).Error("domain event dispatch failed after commit")
			failed = append(failed, repository.FailedEvent{Event: ev, Err: err})
		}
	}
	if len(failed) == 0 {
		return nil
	}

	if u.deadLetters != nil {
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deadLetterTimeout)
		defer cancel()
		if err := u.deadLetters.Store(dctx, failed); err != nil {
			helpers.LogError(u.logger, "store dead-lettered events failed", err, logrus.Fields{"count": len(failed)})
		}
	}
	return &repository.DispatchError{Failed: failed}
}
