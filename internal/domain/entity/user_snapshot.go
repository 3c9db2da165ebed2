package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
	"github.com/oksasatya/go-ddd-identity/internal/domain/valueobject"
)

// UserSnapshot is the flat persisted form of a User. RefreshToken and
// RefreshTokenExpiresAt are both nil or both set.
type UserSnapshot struct {
	ID                    uuid.UUID
	Email                 string
	FirstName             string
	LastName              string
	PasswordHash          string
	Role                  Role
	Status                Status
	CreatedAt             time.Time
	LastLoginAt           *time.Time
	RefreshToken          *string
	RefreshTokenExpiresAt *time.Time
}

// Snapshot captures the current state for persistence.
func (u *User) Snapshot() UserSnapshot {
	s := UserSnapshot{
		ID:           u.id.UUID(),
		Email:        u.email.String(),
		FirstName:    u.firstName,
		LastName:     u.lastName,
		PasswordHash: u.passwordHash,
		Role:         u.role,
		Status:       u.status,
		CreatedAt:    u.createdAt,
	}
	if u.lastLoginAt != nil {
		at := *u.lastLoginAt
		s.LastLoginAt = &at
	}
	if u.refresh != nil {
		token, exp := u.refresh.value, u.refresh.expiresAt
		s.RefreshToken = &token
		s.RefreshTokenExpiresAt = &exp
	}
	return s
}

// RehydrateUser rebuilds a stored user. No events are queued.
func RehydrateUser(s UserSnapshot, opts ...Option) (*User, error) {
	const op = "user.rehydrate"
	if s.ID == uuid.Nil {
		return nil, shared.NewError(shared.CodeInvariantViolation, op, "stored user has no identifier", nil)
	}
	email, err := valueobject.NewEmail(s.Email)
	if err != nil {
		return nil, shared.Wrap(shared.CodeInvariantViolation, op, err)
	}
	role, err := ParseRole(string(s.Role))
	if err != nil {
		return nil, shared.Wrap(shared.CodeInvariantViolation, op, err)
	}
	if s.Status != StatusActive && s.Status != StatusDeactivated {
		return nil, shared.NewError(shared.CodeInvariantViolation, op, fmt.Sprintf("unknown status %d", s.Status), nil)
	}
	if (s.RefreshToken == nil) != (s.RefreshTokenExpiresAt == nil) {
		return nil, shared.NewError(shared.CodeInvariantViolation, op, "refresh token and expiry must be set together", nil)
	}

	u := &User{
		id:           shared.NewIdentity(s.ID),
		email:        email,
		firstName:    s.FirstName,
		lastName:     s.LastName,
		passwordHash: s.PasswordHash,
		role:         role,
		status:       s.Status,
		createdAt:    s.CreatedAt.UTC(),
		env:          shared.DefaultEnv(),
	}
	for _, opt := range opts {
		opt(u)
	}
	if s.LastLoginAt != nil {
		at := s.LastLoginAt.UTC()
		u.lastLoginAt = &at
	}
	if s.RefreshToken != nil {
		u.refresh = &refreshToken{value: *s.RefreshToken, expiresAt: s.RefreshTokenExpiresAt.UTC()}
	}
	return u, nil
}
