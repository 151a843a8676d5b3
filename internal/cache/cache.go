package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// BoardKey holds the memoized group board aggregation.
	BoardKey = "board:view"
	// ProfileChannel carries profile snapshots published after every
	// committed progress or book write.
	ProfileChannel = "profile:updates"

	idempotencyTTL = 24 * time.Hour
)

// Cache wraps Redis for the three concerns the API needs from it: board
// memoization, idempotency-key dedupe, and the profile change stream.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// AcquireOnce claims an idempotency key. It returns false when the key was
// already claimed, meaning the original submission committed and the retry
// must not be applied again.
func (c *Cache) AcquireOnce(ctx context.Context, key string) (bool, error) {
	return c.client.SetNX(ctx, "idem:"+key, 1, idempotencyTTL).Result()
}

// ReleaseKey frees an idempotency key after a failed write so the client's
// retry can go through.
func (c *Cache) ReleaseKey(ctx context.Context, key string) error {
	return c.client.Del(ctx, "idem:"+key).Err()
}

// GetJSON loads a cached value into dest. The second return is false on a
// cache miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores a value under key with the configured TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Invalidate drops cached keys, used after any write that changes the board.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

// ProfileEvent is the message published on ProfileChannel.
type ProfileEvent struct {
	UserID  string          `json:"user_id"`
	Profile json.RawMessage `json:"profile"`
}

// PublishProfile pushes a member's fresh profile snapshot to every
// subscribed instance.
func (c *Cache) PublishProfile(ctx context.Context, userID string, profile any) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(ProfileEvent{UserID: userID, Profile: raw})
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, ProfileChannel, msg).Err()
}

// SubscribeProfiles opens the profile change stream. The caller owns the
// returned PubSub and must Close it on shutdown.
func (c *Cache) SubscribeProfiles(ctx context.Context) *redis.PubSub {
	return c.client.Subscribe(ctx, ProfileChannel)
}
