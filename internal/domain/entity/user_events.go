package entity

import (
	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
)

const (
	EventUserRegistered  = "user.registered"
	EventUserDeactivated = "user.deactivated"
)

// UserRegistered is raised once when a user aggregate is created.
type UserRegistered struct {
	shared.EventBase
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     Role      `json:"role"`
}

func (UserRegistered) EventName() string { return EventUserRegistered }
func (e UserRegistered) AggregateID() uuid.UUID { return e.UserID }

// UserDeactivated is raised when an active user is deactivated.
type UserDeactivated struct {
	shared.EventBase
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Reason string    `json:"reason"`
}

func (UserDeactivated) EventName() string { return EventUserDeactivated }
func (e UserDeactivated) AggregateID() uuid.UUID { return e.UserID }
