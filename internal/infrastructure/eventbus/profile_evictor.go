package eventbus

import (
	"context"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
)

// ProfileEvictor removes cached state for a user.
type ProfileEvictor interface {
	Evict(ctx context.Context, id uuid.UUID) error
}

// CacheInvalidator drops the cached profile of a deactivated user so the
// read side stops serving it before the cache entry expires.
type CacheInvalidator struct {
	cache ProfileEvictor
}

func NewCacheInvalidator(cache ProfileEvictor) *CacheInvalidator {
	return &CacheInvalidator{cache: cache}
}

func (h *CacheInvalidator) Handle(ctx context.Context, ev shared.DomainEvent) error {
	if e, ok := ev.(entity.UserDeactivated); ok {
		return h.cache.Evict(ctx, e.UserID)
	}
	return nil
}
