package valueobject

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ErrInvalidEmail is the cause of every email validation failure.
var ErrInvalidEmail = shared.NewError(shared.CodeValidation, "", "invalid email", nil)

// Email is a trimmed, lower-cased, syntactically valid address. The zero
// value is not a valid Email; obtain one through NewEmail.
type Email struct {
	value string
}

// NewEmail normalizes raw and validates it.
func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return Email{}, shared.NewError(shared.CodeValidation, "email.new", "Email cannot be empty.", ErrInvalidEmail)
	}
	if !emailPattern.MatchString(normalized) {
		return Email{}, shared.NewError(shared.CodeValidation, "email.new",
			fmt.Sprintf("'%s' is not a valid email address.", normalized), ErrInvalidEmail)
	}
	return Email{value: normalized}, nil
}

// MustEmail is NewEmail for literals known to be valid. It panics otherwise.
func MustEmail(raw string) Email {
	e, err := NewEmail(raw)
	if err != nil {
		panic(err)
	}
	return e
}

func (e Email) String() string { return e.value }

func (e Email) IsZero() bool { return e.value == "" }

func (e Email) Components() []any { return []any{e.value} }

func (e Email) Equals(other Email) bool { return e.value == other.value }

var _ shared.ValueObject = Email{}
