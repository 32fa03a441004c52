// Copyright (c) 2026 Rokto. All rights reserved.

package users

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/roktoapp/rokto/internal/platform/constants"
	"github.com/roktoapp/rokto/internal/platform/ctxutil"
	"github.com/roktoapp/rokto/internal/platform/sec"
)

// RedisRoleCache implements [RoleCache] on Redis.
//
// # Failure Policy
//
// The cache is strictly advisory. Every backend failure is logged and treated
// as a miss (Get) or a no-op (Set/Invalidate); authorization decisions never
// depend on Redis being up.
type RedisRoleCache struct {
	client *redis.Client
}

// NewRedisRoleCache creates a Redis-backed role cache.
func NewRedisRoleCache(client *redis.Client) *RedisRoleCache {
	return &RedisRoleCache{client: client}
}

func roleKey(email string) string {
	return constants.RedisPrefixRole + email
}

// Get returns the cached role for an email, if present and valid.
func (cache *RedisRoleCache) Get(ctx context.Context, email string) (sec.Role, bool) {
	value, err := cache.client.Get(ctx, roleKey(email)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			ctxutil.GetLogger(ctx).Warn("role_cache_get_failed", slog.Any("error", err))
		}
		return "", false
	}

	role := sec.Role(value)
	if !role.Valid() {
		return "", false
	}
	return role, true
}

// Set stores a role with the standard TTL.
func (cache *RedisRoleCache) Set(ctx context.Context, email string, role sec.Role) {
	if err := cache.client.Set(ctx, roleKey(email), string(role), constants.RoleCacheTTL).Err(); err != nil {
		ctxutil.GetLogger(ctx).Warn("role_cache_set_failed", slog.Any("error", err))
	}
}

// Invalidate drops the cached role. Called whenever an admin changes a
// user's role or status so the next role gate sees the persisted truth.
func (cache *RedisRoleCache) Invalidate(ctx context.Context, email string) {
	if err := cache.client.Del(ctx, roleKey(email)).Err(); err != nil {
		ctxutil.GetLogger(ctx).Warn("role_cache_invalidate_failed", slog.Any("error", err))
	}
}

// NoopRoleCache is used when no Redis URL is configured: every lookup goes
// straight to the document store.
type NoopRoleCache struct{}

func (NoopRoleCache) Get(context.Context, string) (sec.Role, bool) { return "", false }
func (NoopRoleCache) Set(context.Context, string, sec.Role)        {}
func (NoopRoleCache) Invalidate(context.Context, string)           {}
