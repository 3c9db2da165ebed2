package shared

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type widget struct{ id Identity }

func (w *widget) EntityID() Identity { return w.id }

type gadget struct{ id Identity }

func (g *gadget) EntityID() Identity { return g.id }

func TestSameEntity(t *testing.T) {
	id := uuid.MustParse("7f0c2a8e-4a55-4b8e-9a8a-0f1f8c4b2d11")
	other := uuid.MustParse("a2b6a0a4-4a37-4d3c-8f77-5d3f4f8a9a10")

	cases := []struct {
		name string
		a, b Entity
		want bool
	}{
		{"same type same id", &widget{NewIdentity(id)}, &widget{NewIdentity(id)}, true},
		{"different ids", &widget{NewIdentity(id)}, &widget{NewIdentity(other)}, false},
		{"different types", &widget{NewIdentity(id)}, &gadget{NewIdentity(id)}, false},
		{"left transient", &widget{}, &widget{NewIdentity(id)}, false},
		{"both transient", &widget{}, &widget{}, false},
		{"nil", &widget{NewIdentity(id)}, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SameEntity(tc.a, tc.b); got != tc.want {
				t.Fatalf("SameEntity = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIdentityHashIsStable(t *testing.T) {
	id := NewIdentity(uuid.MustParse("7f0c2a8e-4a55-4b8e-9a8a-0f1f8c4b2d11"))
	copyOf := NewIdentity(id.UUID())
	if id.Hash() != copyOf.Hash() {
		t.Fatalf("equal identifiers must hash equally")
	}
	if first, second := id.Hash(), id.Hash(); first != second {
		t.Fatalf("hash changed between calls")
	}
	var transient Identity
	if !transient.IsTransient() {
		t.Fatalf("zero identity must be transient")
	}
}

type money struct {
	amount   int64
	currency string
}

func (m money) Components() []any { return []any{m.amount, m.currency} }

type points struct {
	amount   int64
	currency string
}

func (p points) Components() []any { return []any{p.amount, p.currency} }

func TestValuesEqual(t *testing.T) {
	a := money{100, "EUR"}
	if !ValuesEqual(a, money{100, "EUR"}) {
		t.Fatalf("expected equal values")
	}
	if ValuesEqual(a, money{100, "USD"}) {
		t.Fatalf("expected different currencies to differ")
	}
	if ValuesEqual(a, points{100, "EUR"}) {
		t.Fatalf("different concrete types must not be equal")
	}
	if ValueHash(a) != ValueHash(money{100, "EUR"}) {
		t.Fatalf("equal values must hash equally")
	}
}

type tick struct {
	EventBase
	n int
}

func (tick) EventName() string      { return "tick" }
func (tick) AggregateID() uuid.UUID { return uuid.Nil }

func TestEventQueueDrain(t *testing.T) {
	var q EventQueue
	q.Record(tick{n: 1})
	q.Record(tick{n: 2})

	if got := len(q.Pending()); got != 2 {
		t.Fatalf("pending = %d, want 2", got)
	}
	drained := q.Drain()
	if len(drained) != 2 || drained[0].(tick).n != 1 || drained[1].(tick).n != 2 {
		t.Fatalf("drain order = %+v", drained)
	}
	again := q.Drain()
	if again == nil || len(again) != 0 {
		t.Fatalf("second drain = %#v, want empty non-nil", again)
	}
}

func TestNewEventBaseUsesEnv(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.FixedZone("x", 3600))
	env := Env{
		Clock: ClockFunc(func() time.Time { return at }),
		Rand:  bytes.NewReader(bytes.Repeat([]byte{0x42}, 16)),
	}
	b, err := NewEventBase(env)
	if err != nil {
		t.Fatalf("NewEventBase: %v", err)
	}
	if !b.OccurredOn().Equal(at) || b.OccurredOn().Location() != time.UTC {
		t.Fatalf("occurred on = %v, want %v in UTC", b.OccurredOn(), at)
	}
	if b.EventID() == uuid.Nil {
		t.Fatalf("expected event id")
	}
	if _, err := NewEventBase(Env{Rand: bytes.NewReader(nil)}); err == nil {
		t.Fatalf("expected error from exhausted random source")
	}
}

func TestErrorCodes(t *testing.T) {
	sentinel := NewError(CodeConflict, "", "taken", nil)
	err := NewError(CodeConflict, "user.create", "email taken", sentinel)
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel in chain")
	}
	if !IsCode(err, CodeConflict) {
		t.Fatalf("code = %q", CodeOf(err))
	}
	if got := err.Error(); got != "user.create: email taken (conflict)" {
		t.Fatalf("message = %q", got)
	}
	if MessageOf(err) != "email taken" {
		t.Fatalf("MessageOf = %q", MessageOf(err))
	}
	if Wrap(CodeInternal, "op", nil) != nil {
		t.Fatalf("wrapping nil must return nil")
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Fatalf("plain errors carry no code")
	}
}
