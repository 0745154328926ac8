package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leaguehub/scheduler/internal/identity"
)

// RoleCache is a TTL-bounded cache of resolved identities keyed by
// (userId, leagueId), per spec §5: "The role/membership cache (if
// implemented) MUST have a TTL ≤ 60 seconds to bound staleness after role
// changes." Grounded on the teacher's pkg/cache/redis.go client wiring.
type RoleCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRoleCache(client *redis.Client, ttl time.Duration) *RoleCache {
	if ttl <= 0 || ttl > 60*time.Second {
		ttl = 60 * time.Second
	}
	return &RoleCache{client: client, ttl: ttl}
}

func cacheKey(userID, leagueID string) string {
	return "identity:" + userID + ":" + leagueID
}

// Get returns a cached Identity, or (nil, nil) on a cache miss. Cache
// errors are swallowed to a miss: the cache is an optimization, never a
// source of truth.
func (c *RoleCache) Get(ctx context.Context, userID, leagueID string) (*identity.Identity, error) {
	if c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, cacheKey(userID, leagueID)).Bytes()
	if err != nil {
		return nil, nil
	}
	var id identity.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, nil
	}
	return &id, nil
}

// Set stores an Identity with the configured TTL. Write failures are
// swallowed; a caller that can't populate the cache simply resolves it
// fresh again next request.
func (c *RoleCache) Set(ctx context.Context, id *identity.Identity) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(id)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, cacheKey(id.UserID, id.LeagueID), raw, c.ttl).Err()
}

// Invalidate evicts a single (userId, leagueId) entry so a role change
// is not masked by a stale cache hit within the TTL window. It is reached
// through IdentityService.InvalidateCache.
func (c *RoleCache) Invalidate(ctx context.Context, userID, leagueID string) {
	if c.client == nil {
		return
	}
	_ = c.client.Del(ctx, cacheKey(userID, leagueID)).Err()
}
