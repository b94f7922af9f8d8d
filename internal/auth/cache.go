package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "session:"

// SessionData is what the server remembers about an issued token. A
// token whose entry is gone (expired or deleted) no longer grants
// access, even if the JWT itself is still within its validity window.
type SessionData struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// SessionCache stores issued sessions in Redis, keyed by token ID.
type SessionCache struct {
	Client *redis.Client
}

func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{Client: client}
}

func (c *SessionCache) Put(ctx context.Context, tokenID string, data SessionData, ttl time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := c.Client.Set(ctx, sessionKeyPrefix+tokenID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session in redis: %w", err)
	}
	return nil
}

// Get returns nil without error when no session exists for the token.
func (c *SessionCache) Get(ctx context.Context, tokenID string) (*SessionData, error) {
	payload, err := c.Client.Get(ctx, sessionKeyPrefix+tokenID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session from redis: %w", err)
	}
	var data SessionData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &data, nil
}

func (c *SessionCache) Delete(ctx context.Context, tokenID string) error {
	return c.Client.Del(ctx, sessionKeyPrefix+tokenID).Err()
}
