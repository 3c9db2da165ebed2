package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
	"github.com/oksasatya/go-ddd-identity/internal/domain/valueobject"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      string // empty means Employee
}

// AuthResponse is returned by every call that issues tokens.
type AuthResponse struct {
	AccessToken        string    `json:"access_token"`
	AccessTokenExpiry  time.Time `json:"access_token_expires_at"`
	RefreshToken       string    `json:"refresh_token"`
	RefreshTokenExpiry time.Time `json:"refresh_token_expires_at"`
	UserID             uuid.UUID `json:"user_id"`
	FullName           string    `json:"full_name"`
	Email              string    `json:"email"`
	Role               string    `json:"role"`
}

func newAuthResponse(u *entity.User, pair helpers.TokenPair) *AuthResponse {
	return &AuthResponse{
		AccessToken:        pair.AccessToken,
		AccessTokenExpiry:  pair.AccessTokenExpiry,
		RefreshToken:       pair.RefreshToken,
		RefreshTokenExpiry: pair.RefreshTokenExpiry,
		UserID:             u.ID(),
		FullName:           u.FullName(),
		Email:              u.Email().String(),
		Role:               u.Role().String(),
	}
}

func requirePassword(op, password string) error {
	if strings.TrimSpace(password) == "" {
		return shared.NewError(shared.CodeValidation, op, "Password is required.", entity.ErrValidation)
	}
	return nil
}

// Register creates an Active user, issues its first token pair and commits
// both in one unit of work. A duplicate email is reported as
// ErrDuplicateEmail whether the pre-check or the store's unique constraint
// catches it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	const op = "register"
	email, err := valueobject.NewEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := requirePassword(op, in.Password); err != nil {
		return nil, err
	}
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	repo := s.users.Open()
	exists, err := repo.ExistsWithEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, duplicateEmail(op, email)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, shared.Wrap(shared.CodeInternal, op, err)
	}
	u, err := entity.CreateUser(email, in.FirstName, in.LastName, hash, role, s.userOpts...)
	if err != nil {
		return nil, err
	}
	pair, err := s.issue(u)
	if err != nil {
		return nil, shared.Wrap(shared.CodeInternal, op, err)
	}

	repo.Add(u)
	if err := s.commit(ctx, repo, op); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, duplicateEmail(op, email)
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": u.ID().String(), "role": u.Role().String()}).Info("user registered")
	return newAuthResponse(u, pair), nil
}

// Login checks the password, records the login and rotates the refresh
// token. Unknown emails and wrong passwords are reported with different
// errors but cost the same single password verification.
func (s *Service) Login(ctx context.Context, rawEmail, password string) (*AuthResponse, error) {
	const op = "login"
	email, err := valueobject.NewEmail(rawEmail)
	if err != nil {
		s.hasher.Verify(password, s.decoyHash)
		return nil, userNotFound(op)
	}

	repo := s.users.Open()
	u, err := repo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.hasher.Verify(password, s.decoyHash)
		return nil, userNotFound(op)
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(password, u.PasswordHash()) {
		s.logger.WithField("user_id", u.ID().String()).Info("login rejected: bad password")
		return nil, invalidCredentials(op)
	}
	if err := u.RecordLogin(); err != nil {
		return nil, err
	}
	pair, err := s.issue(u)
	if err != nil {
		return nil, shared.Wrap(shared.CodeInternal, op, err)
	}

	repo.Update(u)
	if err := s.commit(ctx, repo, op); err != nil {
		return nil, err
	}
	return newAuthResponse(u, pair), nil
}

// Refresh exchanges a stored, unexpired refresh token for a new pair. The
// presented token stops working as soon as the new one is committed.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	const op = "refresh"
	if refreshToken == "" {
		return nil, invalidRefreshToken(op)
	}
	repo := s.users.Open()
	u, err := repo.GetByRefreshToken(ctx, refreshToken)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalidRefreshToken(op)
	}
	if err != nil {
		return nil, err
	}
	if !u.HasValidRefreshToken(refreshToken) {
		return nil, invalidRefreshToken(op)
	}
	if !u.IsActive() {
		return nil, shared.NewError(shared.CodeAccountNotActive, op, "Account is "+u.Status().String()+".", entity.ErrAccountNotActive)
	}
	pair, err := s.issue(u)
	if err != nil {
		return nil, shared.Wrap(shared.CodeInternal, op, err)
	}

	repo.Update(u)
	if err := s.commit(ctx, repo, op); err != nil {
		return nil, err
	}
	return newAuthResponse(u, pair), nil
}

// Logout revokes the user's refresh token. Logging out twice is not an
// error.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	const op = "logout"
	repo := s.users.Open()
	u, err := s.load(ctx, repo, op, userID)
	if err != nil {
		return err
	}
	if _, _, ok := u.RefreshToken(); !ok {
		return nil
	}
	u.RevokeRefreshToken()
	repo.Update(u)
	return s.commit(ctx, repo, op)
}

// ChangePassword verifies the current password and stores a hash of the
// new one. Existing refresh tokens are revoked.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	const op = "change_password"
	if err := requirePassword(op, next); err != nil {
		return err
	}
	repo := s.users.Open()
	u, err := s.load(ctx, repo, op, userID)
	if err != nil {
		return err
	}
	if !u.IsActive() {
		return shared.NewError(shared.CodeAccountNotActive, op, "Account is "+u.Status().String()+".", entity.ErrAccountNotActive)
	}
	if !s.hasher.Verify(current, u.PasswordHash()) {
		return shared.NewError(shared.CodeInvalidCredentials, op, "Current password is incorrect.", ErrInvalidCredentials)
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return shared.Wrap(shared.CodeInternal, op, err)
	}
	if err := u.ChangePassword(hash); err != nil {
		return err
	}
	repo.Update(u)
	if err := s.commit(ctx, repo, op); err != nil {
		return err
	}
	s.logger.WithField("user_id", userID.String()).Info("password changed")
	return nil
}

func (s *Service) load(ctx context.Context, repo repository.UserRepository, op string, id uuid.UUID) (*entity.User, error) {
	u, err := repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, userNotFound(op)
	}
	return u, err
}
