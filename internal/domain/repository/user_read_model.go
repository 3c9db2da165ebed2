package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-identity/pkg/pagination"
)

// UserProfile is the read-side projection of a user. It is served straight
// from the store without loading the aggregate.
type UserProfile struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// UserReadModel answers profile queries.
type UserReadModel interface {
	// ActiveProfile returns ErrNotFound for unknown or deactivated users.
	ActiveProfile(ctx context.Context, id uuid.UUID) (*UserProfile, error)
	ListProfiles(ctx context.Context, page pagination.Page) (pagination.PagedResult[UserProfile], error)
}
