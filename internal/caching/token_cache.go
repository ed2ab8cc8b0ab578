// Package caching holds the redis-backed token cache used by the token
// authority: a revocation blacklist consulted on every resolve, so a revoked
// token dies immediately without a database round trip.
package caching

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

type TokenCache interface {
	// Blacklist marks a token id revoked for the remaining token lifetime.
	Blacklist(ctx context.Context, tokenID string, ttl time.Duration) error
	// IsBlacklisted reports whether the token id was revoked.
	IsBlacklisted(ctx context.Context, tokenID string) (bool, error)

	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

type redisTokenCache struct {
	client *redis.Client
}

func NewRedisTokenCache(addr, password string, db int) TokenCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisTokenCache{client: client}
}

func blacklistKey(tokenID string) string {
	return "token_blacklist:" + tokenID
}

func (c *redisTokenCache) Blacklist(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired, nothing to blacklist.
		return nil
	}
	return c.client.Set(ctx, blacklistKey(tokenID), "revoked", ttl).Err()
}

func (c *redisTokenCache) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	_, err := c.client.Get(ctx, blacklistKey(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *redisTokenCache) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *redisTokenCache) GetString(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (c *redisTokenCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *redisTokenCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
