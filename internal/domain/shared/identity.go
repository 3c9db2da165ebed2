package shared

import (
	"reflect"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Identity is the identifier carried by every entity. The zero value is
// transient: it has not been assigned an identifier yet.
type Identity struct {
	id     uuid.UUID
	hash   uint64
	hashed bool
}

// NewIdentity wraps an identifier.
func NewIdentity(id uuid.UUID) Identity {
	return Identity{id: id}
}

func (i Identity) UUID() uuid.UUID { return i.id }

func (i Identity) String() string { return i.id.String() }

// IsTransient reports whether no identifier has been assigned.
func (i Identity) IsTransient() bool { return i.id == uuid.Nil }

// Hash returns a hash of the identifier. The value is computed once and
// reused for the life of the identity.
func (i *Identity) Hash() uint64 {
	if !i.hashed {
		i.hash = xxhash.Sum64(i.id[:])
		i.hashed = true
	}
	return i.hash
}

// Entity is implemented by types whose equality is defined by identity.
type Entity interface {
	EntityID() Identity
}

// SameEntity reports whether a and b denote the same entity: both have the
// same concrete type, neither is transient, and their identifiers match.
func SameEntity(a, b Entity) bool {
	if a == nil || b == nil {
		return false
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	ia, ib := a.EntityID(), b.EntityID()
	if ia.IsTransient() || ib.IsTransient() {
		return false
	}
	return ia.id == ib.id
}
