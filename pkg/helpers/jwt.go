package helpers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour

	refreshTokenSize = 64
	minSecretSize    = 32
)

var ErrInvalidToken = errors.New("invalid token")

// TokenSettings configures signing and lifetimes.
type TokenSettings struct {
	SecretKey  string
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenSubject is the user data embedded in an access token.
type TokenSubject struct {
	UserID   uuid.UUID
	Email    string
	FullName string
	Role     string
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// AccessClaims is the payload of an access token.
type AccessClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer mints HS256 access tokens and opaque refresh tokens.
type TokenIssuer struct {
	secret   []byte
	settings TokenSettings
	Now      func() time.Time
	Rand     io.Reader
}

func NewTokenIssuer(s TokenSettings) (*TokenIssuer, error) {
	if len(s.SecretKey) < minSecretSize {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", minSecretSize)
	}
	if s.Issuer == "" || s.Audience == "" {
		return nil, errors.New("jwt issuer and audience are required")
	}
	if s.AccessTTL <= 0 {
		s.AccessTTL = DefaultAccessTTL
	}
	if s.RefreshTTL <= 0 {
		s.RefreshTTL = DefaultRefreshTTL
	}
	return &TokenIssuer{
		secret:   []byte(s.SecretKey),
		settings: s,
		Now:      func() time.Time { return time.Now().UTC() },
		Rand:     rand.Reader,
	}, nil
}

func (m *TokenIssuer) now() time.Time {
	if m.Now == nil {
		return time.Now().UTC()
	}
	return m.Now().UTC()
}

func (m *TokenIssuer) random() io.Reader {
	if m.Rand == nil {
		return rand.Reader
	}
	return m.Rand
}

// GenerateTokens mints a fresh access/refresh pair for sub. It has no side
// effects; callers store the refresh token on the user themselves.
func (m *TokenIssuer) GenerateTokens(sub TokenSubject) (TokenPair, error) {
	now := m.now()
	access, aexp, err := m.generateAccessToken(sub, now)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.generateRefreshToken()
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:        access,
		AccessTokenExpiry:  aexp,
		RefreshToken:       refresh,
		RefreshTokenExpiry: now.Add(m.settings.RefreshTTL),
	}, nil
}

func (m *TokenIssuer) generateAccessToken(sub TokenSubject, now time.Time) (string, time.Time, error) {
	jti, err := uuid.NewRandomFromReader(m.random())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate jti: %w", err)
	}
	exp := now.Add(m.settings.AccessTTL)
	claims := &AccessClaims{
		Email: sub.Email,
		Name:  sub.FullName,
		Role:  sub.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.UserID.String(),
			ID:        jti.String(),
			Issuer:    m.settings.Issuer,
			Audience:  jwt.ClaimStrings{m.settings.Audience},
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, exp, nil
}

func (m *TokenIssuer) generateRefreshToken() (string, error) {
	b := make([]byte, refreshTokenSize)
	if _, err := io.ReadFull(m.random(), b); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// ParseAccessToken validates signature, algorithm, issuer, audience and
// expiry, and returns the claims.
func (m *TokenIssuer) ParseAccessToken(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.settings.Issuer),
		jwt.WithAudience(m.settings.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return claims, nil
}

// UserID returns the subject as a UUID.
func (c *AccessClaims) UserID() uuid.UUID {
	id, _ := uuid.Parse(c.Subject)
	return id
}
