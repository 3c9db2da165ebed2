package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

const DefaultProfileTTL = 5 * time.Minute

func profileKey(id uuid.UUID) string { return "user:profile:" + id.String() }

// ProfileCache stores active user profiles in Redis. A nil client makes
// every lookup a miss.
type ProfileCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProfileCache(rdb *redis.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	return &ProfileCache{rdb: rdb, ttl: ttl}
}

func (c *ProfileCache) Get(ctx context.Context, id uuid.UUID) (*repository.UserProfile, bool, error) {
	if c == nil || c.rdb == nil {
		return nil, false, nil
	}
	var p repository.UserProfile
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, profileKey(id), &p)
	if err != nil || !ok {
		return nil, false, err
	}
	return &p, true, nil
}

func (c *ProfileCache) Set(ctx context.Context, p *repository.UserProfile) error {
	if c == nil || c.rdb == nil || p == nil {
		return nil
	}
	return helpers.RedisSetJSON(ctx, c.rdb, profileKey(p.ID), p, c.ttl)
}

// Evict drops the cached profile of id.
func (c *ProfileCache) Evict(ctx context.Context, id uuid.UUID) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return helpers.RedisDel(ctx, c.rdb, profileKey(id))
}
