package entity

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
	"github.com/oksasatya/go-ddd-identity/internal/domain/valueobject"
)

var (
	ErrValidation         = shared.NewError(shared.CodeValidation, "", "validation failed", nil)
	ErrAccountNotActive   = shared.NewError(shared.CodeAccountNotActive, "", "account is not active", nil)
	ErrAlreadyDeactivated = shared.NewError(shared.CodeInvariantViolation, "", "user is already deactivated", nil)
)

type refreshToken struct {
	value     string
	expiresAt time.Time
}

// User is the aggregate root of the identity context. All state changes go
// through its methods; events they raise stay queued until the unit of work
// drains them after commit.
type User struct {
	id           shared.Identity
	email        valueobject.Email
	firstName    string
	lastName     string
	passwordHash string
	role         Role
	status       Status
	createdAt    time.Time
	lastLoginAt  *time.Time
	refresh      *refreshToken

	events shared.EventQueue
	env    shared.Env
}

// Option configures the time and randomness sources of a User.
type Option func(*User)

// WithEnv replaces both the clock and the random source.
func WithEnv(env shared.Env) Option {
	return func(u *User) { u.env = env }
}

func WithClock(c shared.Clock) Option {
	return func(u *User) { u.env.Clock = c }
}

func WithRandom(r io.Reader) Option {
	return func(u *User) { u.env.Rand = r }
}

func requireText(op, field, v string) error {
	if strings.TrimSpace(v) == "" {
		return shared.NewError(shared.CodeValidation, op, field+" is required", ErrValidation)
	}
	return nil
}

// CreateUser builds a new Active user and queues UserRegistered.
func CreateUser(email valueobject.Email, firstName, lastName, passwordHash string, role Role, opts ...Option) (*User, error) {
	const op = "user.create"
	if email.IsZero() {
		return nil, shared.NewError(shared.CodeValidation, op, "email is required", ErrValidation)
	}
	if err := requireText(op, "first name", firstName); err != nil {
		return nil, err
	}
	if err := requireText(op, "last name", lastName); err != nil {
		return nil, err
	}
	if err := requireText(op, "password hash", passwordHash); err != nil {
		return nil, err
	}
	if role == "" {
		role = RoleEmployee
	}
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}

	u := &User{env: shared.DefaultEnv()}
	for _, opt := range opts {
		opt(u)
	}
	id, err := u.env.NewID()
	if err != nil {
		return nil, shared.Wrap(shared.CodeInternal, op, err)
	}
	u.id = shared.NewIdentity(id)
	u.email = email
	u.firstName = strings.TrimSpace(firstName)
	u.lastName = strings.TrimSpace(lastName)
	u.passwordHash = passwordHash
	u.role = role
	u.status = StatusActive
	u.createdAt = u.env.Now()

	base, err := shared.NewEventBase(u.env)
	if err != nil {
		return nil, shared.Wrap(shared.CodeInternal, op, err)
	}
	u.events.Record(UserRegistered{
		EventBase: base,
		UserID:    id,
		Email:     email.String(),
		FullName:  u.FullName(),
		Role:      role,
	})
	return u, nil
}

func (u *User) ID() uuid.UUID { return u.id.UUID() }
func (u *User) EntityID() shared.Identity { return u.id }
func (u *User) Email() valueobject.Email { return u.email }
func (u *User) FirstName() string { return u.firstName }
func (u *User) LastName() string { return u.lastName }
func (u *User) FullName() string { return u.firstName + " " + u.lastName }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() Role { return u.role }
func (u *User) Status() Status { return u.status }
func (u *User) IsActive() bool { return u.status == StatusActive }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) Equals(other *User) bool { return other != nil && shared.SameEntity(u, other) }
func (u *User) Hash() uint64 { return u.id.Hash() }
func (u *User) DrainEvents() []shared.DomainEvent { return u.events.Drain() }
func (u *User) PendingEvents() []shared.DomainEvent { return u.events.Pending() }

// LastLoginAt returns the last successful login, if any.
func (u *User) LastLoginAt() (time.Time, bool) {
	if u.lastLoginAt == nil {
		return time.Time{}, false
	}
	return *u.lastLoginAt, true
}

// RefreshToken returns the stored refresh token and its expiry, if any.
func (u *User) RefreshToken() (string, time.Time, bool) {
	if u.refresh == nil {
		return "", time.Time{}, false
	}
	return u.refresh.value, u.refresh.expiresAt, true
}

// RecordLogin stamps the login time. Only Active users may log in.
func (u *User) RecordLogin() error {
	if u.status != StatusActive {
		return shared.NewError(shared.CodeAccountNotActive, "user.record_login",
			fmt.Sprintf("Cannot login: account is %s.", u.status), ErrAccountNotActive)
	}
	now := u.env.Now()
	u.lastLoginAt = &now
	return nil
}

// SetRefreshToken replaces the token and its expiry together.
func (u *User) SetRefreshToken(token string, expiresAt time.Time) {
	u.refresh = &refreshToken{value: token, expiresAt: expiresAt.UTC()}
}

// RevokeRefreshToken clears the token and its expiry together.
func (u *User) RevokeRefreshToken() {
	u.refresh = nil
}

// HasValidRefreshToken reports whether token matches the stored one exactly
// and the stored expiry is still in the future.
func (u *User) HasValidRefreshToken(token string) bool {
	if u.refresh == nil || token == "" {
		return false
	}
	return u.refresh.value == token && u.refresh.expiresAt.After(u.env.Now())
}

// Deactivate moves an Active user to Deactivated, revokes its refresh token
// and queues UserDeactivated.
func (u *User) Deactivate(reason string) error {
	const op = "user.deactivate"
	if u.status == StatusDeactivated {
		return shared.NewError(shared.CodeInvariantViolation, op, "User is already deactivated.", ErrAlreadyDeactivated)
	}
	base, err := shared.NewEventBase(u.env)
	if err != nil {
		return shared.Wrap(shared.CodeInternal, op, err)
	}
	u.status = StatusDeactivated
	u.RevokeRefreshToken()
	u.events.Record(UserDeactivated{
		EventBase: base,
		UserID:    u.id.UUID(),
		Email:     u.email.String(),
		Reason:    strings.TrimSpace(reason),
	})
	return nil
}

// ChangePassword stores a new hash and revokes the refresh token so every
// session has to log in again.
func (u *User) ChangePassword(newPasswordHash string) error {
	if err := requireText("user.change_password", "password hash", newPasswordHash); err != nil {
		return err
	}
	u.passwordHash = newPasswordHash
	u.RevokeRefreshToken()
	return nil
}

var (
	_ shared.Entity      = (*User)(nil)
	_ shared.EventSource = (*User)(nil)
)
