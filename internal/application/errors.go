package application

import (
	"fmt"

	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
	"github.com/oksasatya/go-ddd-identity/internal/domain/valueobject"
)

var (
	ErrUserNotFound        = shared.NewError(shared.CodeNotFound, "", "user not found", nil)
	ErrInvalidCredentials  = shared.NewError(shared.CodeInvalidCredentials, "", "invalid credentials", nil)
	ErrInvalidRefreshToken = shared.NewError(shared.CodeInvalidCredentials, "", "invalid refresh token", nil)

	ErrDuplicateEmail = repository.ErrDuplicateEmail
	ErrInvalidEmail   = valueobject.ErrInvalidEmail
)

func duplicateEmail(op string, email valueobject.Email) error {
	return shared.NewError(shared.CodeConflict, op,
		fmt.Sprintf("A user with email '%s' already exists.", email), ErrDuplicateEmail)
}

func userNotFound(op string) error {
	return shared.NewError(shared.CodeNotFound, op, "User not found.", ErrUserNotFound)
}

func invalidCredentials(op string) error {
	return shared.NewError(shared.CodeInvalidCredentials, op, "Invalid email or password.", ErrInvalidCredentials)
}

func invalidRefreshToken(op string) error {
	return shared.NewError(shared.CodeInvalidCredentials, op, "Refresh token is invalid or expired.", ErrInvalidRefreshToken)
}
