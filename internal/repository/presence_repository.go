package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// LastSeenCache is a best-effort, cross-restart cache of each user's
// last-seen timestamp. It is not the connection manager — that stays a
// single-process in-memory map (internal/ws.Manager).
// A nil client makes every method a no-op, so a missing Redis never blocks
// the core.
type LastSeenCache interface {
	Touch(ctx context.Context, username string, at time.Time) error
	Get(ctx context.Context, username string) (time.Time, bool)
}

type lastSeenCache struct {
	client *redis.Client
}

func NewLastSeenCache(client *redis.Client) LastSeenCache {
	return &lastSeenCache{client: client}
}

func key(username string) string {
	return "last_seen:" + username
}

func (c *lastSeenCache) Touch(ctx context.Context, username string, at time.Time) error {
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, key(username), at.Format(time.RFC3339), 30*24*time.Hour).Err()
}

func (c *lastSeenCache) Get(ctx context.Context, username string) (time.Time, bool) {
	if c.client == nil {
		return time.Time{}, false
	}
	val, err := c.client.Get(ctx, key(username)).Result()
	if err != nil {
		return time.Time{}, false
	}
	at, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}
