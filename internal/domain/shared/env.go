package shared

import (
	"crypto/rand"
	"io"
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Env carries the time and randomness sources used by domain code.
type Env struct {
	Clock Clock
	Rand  io.Reader
}

// DefaultEnv uses the system clock and crypto/rand.
func DefaultEnv() Env {
	return Env{Clock: SystemClock{}, Rand: rand.Reader}
}

func (e Env) Now() time.Time {
	if e.Clock == nil {
		return time.Now().UTC()
	}
	return e.Clock.Now().UTC()
}

// NewID draws a random version 4 identifier from the configured source.
func (e Env) NewID() (uuid.UUID, error) {
	if e.Rand == nil {
		return uuid.NewRandomFromReader(rand.Reader)
	}
	return uuid.NewRandomFromReader(e.Rand)
}
