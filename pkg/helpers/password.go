package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultPasswordIterations = 100000
	passwordSaltSize          = 16
	passwordKeySize           = 32
)

// PasswordHasher derives PBKDF2-SHA256 hashes stored as
// "<iterations>.<base64 salt>.<base64 key>".
type PasswordHasher struct {
	Iterations int
	Rand       io.Reader
}

func NewPasswordHasher(iterations int) *PasswordHasher {
	if iterations <= 0 {
		iterations = DefaultPasswordIterations
	}
	return &PasswordHasher{Iterations: iterations, Rand: rand.Reader}
}

// Hash salts and derives password. Two calls with the same input produce
// different strings.
func (h *PasswordHasher) Hash(password string) (string, error) {
	r := h.Rand
	if r == nil {
		r = rand.Reader
	}
	iter := h.Iterations
	if iter <= 0 {
		iter = DefaultPasswordIterations
	}
	salt := make([]byte, passwordSaltSize)
	if _, err := io.ReadFull(r, salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), salt, iter, passwordKeySize, sha256.New)
	return strconv.Itoa(iter) + "." +
		base64.StdEncoding.EncodeToString(salt) + "." +
		base64.StdEncoding.EncodeToString(key), nil
}

// Verify re-derives the key with the stored salt and iteration count. Any
// malformed stored value yields false.
func (h *PasswordHasher) Verify(password, stored string) bool {
	parts := strings.Split(stored, ".")
	if len(parts) != 3 {
		return false
	}
	iter, err := strconv.Atoi(parts[0])
	if err != nil || iter <= 0 {
		return false
	}
	salt, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil || len(salt) == 0 {
		return false
	}
	want, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil || len(want) != passwordKeySize {
		return false
	}
	got := pbkdf2.Key([]byte(password), salt, iter, passwordKeySize, sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
