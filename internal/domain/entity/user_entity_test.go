package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
	"github.com/oksasatya/go-ddd-identity/internal/domain/valueobject"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 10, 8, 30, 0, 0, time.UTC)}
}

func newUser(t *testing.T, clock shared.Clock) *User {
	t.Helper()
	u, err := CreateUser(valueobject.MustEmail("jane.doe@example.com"), " Jane ", "Doe ", "100000.c2FsdA==.a2V5", RoleEmployee, WithClock(clock))
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func TestCreateUserQueuesRegistered(t *testing.T) {
	clock := newClock()
	u := newUser(t, clock)

	if u.EntityID().IsTransient() {
		t.Fatalf("new user must have an identifier")
	}
	if u.Status() != StatusActive {
		t.Fatalf("status = %v, want Active", u.Status())
	}
	if u.FullName() != "Jane Doe" {
		t.Fatalf("full name = %q", u.FullName())
	}
	if !u.CreatedAt().Equal(clock.now) {
		t.Fatalf("created at = %v, want %v", u.CreatedAt(), clock.now)
	}
	if _, _, ok := u.RefreshToken(); ok {
		t.Fatalf("new user must not have a refresh token")
	}

	events := u.DrainEvents()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	ev, ok := events[0].(UserRegistered)
	if !ok {
		t.Fatalf("event type = %T", events[0])
	}
	if ev.UserID != u.ID() || ev.Email != "jane.doe@example.com" || ev.FullName != "Jane Doe" || ev.Role != RoleEmployee {
		t.Fatalf("event payload = %+v", ev)
	}
	if !ev.OccurredOn().Equal(clock.now) || ev.EventName() != EventUserRegistered {
		t.Fatalf("event metadata = %v %q", ev.OccurredOn(), ev.EventName())
	}
	if again := u.DrainEvents(); len(again) != 0 {
		t.Fatalf("second drain = %d events, want 0", len(again))
	}
}

func TestCreateUserValidation(t *testing.T) {
	email := valueobject.MustEmail("a@example.com")
	cases := []struct {
		name              string
		email             valueobject.Email
		first, last, hash string
		role              Role
	}{
		{"zero email", valueobject.Email{}, "A", "B", "h", RoleEmployee},
		{"blank first name", email, "  ", "B", "h", RoleEmployee},
		{"blank last name", email, "A", "", "h", RoleEmployee},
		{"blank hash", email, "A", "B", " ", RoleEmployee},
		{"unknown role", email, "A", "B", "h", Role("Pilot")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateUser(tc.email, tc.first, tc.last, tc.hash, tc.role)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			if !shared.IsCode(err, shared.CodeValidation) {
				t.Fatalf("code = %q", shared.CodeOf(err))
			}
		})
	}
}

func TestCreateUserDefaultsRole(t *testing.T) {
	u, err := CreateUser(valueobject.MustEmail("a@example.com"), "A", "B", "h", "")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Role() != RoleEmployee {
		t.Fatalf("role = %q, want Employee", u.Role())
	}
}

func TestRecordLogin(t *testing.T) {
	clock := newClock()
	u := newUser(t, clock)
	clock.Advance(time.Hour)

	if err := u.RecordLogin(); err != nil {
		t.Fatalf("RecordLogin: %v", err)
	}
	at, ok := u.LastLoginAt()
	if !ok || !at.Equal(clock.now) {
		t.Fatalf("last login = %v %v, want %v", at, ok, clock.now)
	}
}

func TestRefreshTokenLifecycle(t *testing.T) {
	clock := newClock()
	u := newUser(t, clock)

	u.SetRefreshToken("tok-1", clock.now.Add(time.Hour))
	if !u.HasValidRefreshToken("tok-1") {
		t.Fatalf("expected tok-1 to be valid")
	}
	if u.HasValidRefreshToken("tok-2") {
		t.Fatalf("mismatched token must be invalid")
	}
	if u.HasValidRefreshToken("") {
		t.Fatalf("empty token must be invalid")
	}

	clock.Advance(time.Hour)
	if u.HasValidRefreshToken("tok-1") {
		t.Fatalf("token expiring exactly now must be invalid")
	}

	u.SetRefreshToken("tok-2", clock.now.Add(time.Minute))
	if u.HasValidRefreshToken("tok-1") || !u.HasValidRefreshToken("tok-2") {
		t.Fatalf("setting a new token must replace the old one")
	}

	u.RevokeRefreshToken()
	if u.HasValidRefreshToken("tok-2") {
		t.Fatalf("revoked token must be invalid")
	}
	if tok, exp, ok := u.RefreshToken(); ok || tok != "" || !exp.IsZero() {
		t.Fatalf("token and expiry must be cleared together")
	}
}

func TestDeactivate(t *testing.T) {
	clock := newClock()
	u := newUser(t, clock)
	u.DrainEvents()
	u.SetRefreshToken("tok", clock.now.Add(time.Hour))

	if err := u.Deactivate(" left the company "); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if u.Status() != StatusDeactivated {
		t.Fatalf("status = %v", u.Status())
	}
	if _, _, ok := u.RefreshToken(); ok {
		t.Fatalf("deactivation must revoke the refresh token")
	}

	events := u.DrainEvents()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	ev, ok := events[0].(UserDeactivated)
	if !ok || ev.Reason != "left the company" || ev.Email != "jane.doe@example.com" || ev.UserID != u.ID() {
		t.Fatalf("event = %#v", events[0])
	}

	err := u.RecordLogin()
	if !errors.Is(err, ErrAccountNotActive) {
		t.Fatalf("RecordLogin after deactivation: %v", err)
	}
	if got := shared.MessageOf(err); got != "Cannot login: account is Deactivated." {
		t.Fatalf("message = %q", got)
	}

	err = u.Deactivate("again")
	if !errors.Is(err, ErrAlreadyDeactivated) {
		t.Fatalf("second Deactivate: %v", err)
	}
	if len(u.PendingEvents()) != 0 {
		t.Fatalf("failed deactivation must not queue events")
	}
}

func TestChangePasswordRevokesRefreshToken(t *testing.T) {
	clock := newClock()
	u := newUser(t, clock)
	u.SetRefreshToken("tok", clock.now.Add(time.Hour))

	if err := u.ChangePassword("  "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank hash: %v", err)
	}
	if !u.HasValidRefreshToken("tok") {
		t.Fatalf("rejected change must leave the token alone")
	}
	if err := u.ChangePassword("new-hash"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if u.PasswordHash() != "new-hash" || u.HasValidRefreshToken("tok") {
		t.Fatalf("password change must store the hash and revoke the token")
	}
}

func TestUserEquality(t *testing.T) {
	u := newUser(t, newClock())
	same, err := RehydrateUser(u.Snapshot())
	if err != nil {
		t.Fatalf("RehydrateUser: %v", err)
	}
	if !u.Equals(same) || u.Hash() != same.Hash() {
		t.Fatalf("same identifier must be the same entity")
	}
	other := newUser(t, newClock())
	if u.Equals(other) {
		t.Fatalf("different identifiers must differ")
	}
	if u.Equals(nil) {
		t.Fatalf("nil is never equal")
	}
}

func TestRehydrateRoundTrip(t *testing.T) {
	clock := newClock()
	u := newUser(t, clock)
	_ = u.RecordLogin()
	u.SetRefreshToken("tok", clock.now.Add(time.Hour))

	back, err := RehydrateUser(u.Snapshot(), WithClock(clock))
	if err != nil {
		t.Fatalf("RehydrateUser: %v", err)
	}
	if len(back.PendingEvents()) != 0 {
		t.Fatalf("rehydrated users carry no events")
	}
	if !back.HasValidRefreshToken("tok") || back.Email().String() != "jane.doe@example.com" {
		t.Fatalf("state lost in round trip: %+v", back.Snapshot())
	}
}

func TestRehydrateRejectsHalfToken(t *testing.T) {
	s := newUser(t, newClock()).Snapshot()
	tok := "tok"
	s.RefreshToken = &tok
	if _, err := RehydrateUser(s); !shared.IsCode(err, shared.CodeInvariantViolation) {
		t.Fatalf("err = %v, want invariant violation", err)
	}
}
