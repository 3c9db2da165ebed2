package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
	"github.com/oksasatya/go-ddd-identity/internal/domain/valueobject"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = shared.NewError(shared.CodeNotFound, "", "not found", nil)

// ErrDuplicateEmail is returned by SaveAndDispatch when the store's unique
// email constraint rejects a tracked user.
var ErrDuplicateEmail = shared.NewError(shared.CodeConflict, "", "duplicate email", nil)

// UserRepository loads users and tracks them for the unit of work it
// belongs to. Add and Update only register intent; nothing is written until
// UnitOfWork().SaveAndDispatch runs.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*entity.User, error)
	ExistsWithEmail(ctx context.Context, email valueobject.Email) (bool, error)
	Add(u *entity.User)
	Update(u *entity.User)
	UnitOfWork() UnitOfWork
}

// UnitOfWork commits every tracked aggregate in one transaction and then
// dispatches their queued events. It reports whether any row changed.
type UnitOfWork interface {
	SaveAndDispatch(ctx context.Context) (bool, error)
}

// UserRepositoryFactory opens a fresh repository and unit of work. Each
// request gets its own; instances are not shared between goroutines.
type UserRepositoryFactory interface {
	Open() UserRepository
}
