package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

// PasswordHasher hashes and verifies stored credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, stored string) bool
}

// TokenIssuer mints access and refresh tokens.
type TokenIssuer interface {
	GenerateTokens(sub helpers.TokenSubject) (helpers.TokenPair, error)
}

// ProfileCache keeps recently served profiles.
type ProfileCache interface {
	Get(ctx context.Context, id uuid.UUID) (*repository.UserProfile, bool, error)
	Set(ctx context.Context, p *repository.UserProfile) error
}

// UserSearch queries the user directory.
type UserSearch interface {
	Search(ctx context.Context, q string, size int) ([]repository.UserProfile, error)
}
