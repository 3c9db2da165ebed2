package postgres

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
)

// injectedTxRunner runs the body against db and lets tests fail begin or
// commit without a database.
type injectedTxRunner struct {
	mu sync.Mutex

	db         DBTX
	FailBegin  error
	FailCommit error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

func (r *injectedTxRunner) InTx(ctx context.Context, fn func(ctx context.Context, q DBTX) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin, failCommit := r.FailBegin, r.FailCommit
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	if err := fn(ctx, r.db); err != nil {
		r.mu.Lock()
		r.RollbackCalls++
		r.mu.Unlock()
		return err
	}
	if failCommit != nil {
		r.mu.Lock()
		r.RollbackCalls++
		r.mu.Unlock()
		return failCommit
	}
	r.mu.Lock()
	r.CommitCalls++
	r.mu.Unlock()
	return nil
}

type execCall struct {
	sql  string
	args []any
}

// fakeDB records Exec calls and answers them with ExecFn.
type fakeDB struct {
	mu     sync.Mutex
	execs  []execCall
	ExecFn func(sql string, args []any) (pgconn.CommandTag, error)
	RowFn  func(sql string, args []any) pgx.Row
}

func (d *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.mu.Lock()
	d.execs = append(d.execs, execCall{sql: sql, args: args})
	d.mu.Unlock()
	if d.ExecFn != nil {
		return d.ExecFn(sql, args)
	}
	switch {
	case strings.Contains(sql, "INSERT"):
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.Contains(sql, "UPDATE"):
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	return pgconn.NewCommandTag(""), nil
}

func (d *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("fakeDB: Query not supported")
}

func (d *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	if d.RowFn != nil {
		return d.RowFn(sql, args)
	}
	return errRow{pgx.ErrNoRows}
}

func (d *fakeDB) Execs() []execCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]execCall, len(d.execs))
	copy(out, d.execs)
	return out
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// recordingDispatcher keeps every delivered event and fails the ones
// FailOn selects.
type recordingDispatcher struct {
	mu     sync.Mutex
	seen   []shared.DomainEvent
	FailOn func(shared.DomainEvent) error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, e shared.DomainEvent) error {
	d.mu.Lock()
	d.seen = append(d.seen, e)
	fail := d.FailOn
	d.mu.Unlock()
	if fail != nil {
		return fail(e)
	}
	return nil
}

func (d *recordingDispatcher) Seen() []shared.DomainEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]shared.DomainEvent, len(d.seen))
	copy(out, d.seen)
	return out
}

type recordingSink struct {
	stored []repository.FailedEvent
	err    error
}

func (s *recordingSink) Store(_ context.Context, failed []repository.FailedEvent) error {
	s.stored = append(s.stored, failed...)
	return s.err
}
