// Package cache holds the read-through cache for public user summaries.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rohits-web03/evently/internal/models"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = errors.New("cache miss")

// UserCache stores UserSummary values by user id. Entries expire after the
// configured TTL and are evicted explicitly on lifecycle changes.
type UserCache interface {
	Get(ctx context.Context, id uint) (models.UserSummary, error)
	Set(ctx context.Context, u models.UserSummary) error
	Delete(ctx context.Context, id uint) error
}

type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisUserCache connects using a redis:// URL and pings the server.
func NewRedisUserCache(ctx context.Context, url string, ttl time.Duration) (*RedisUserCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisUserCache{client: client, ttl: ttl}, nil
}

func key(id uint) string {
	return fmt.Sprintf("user:info:%d", id)
}

func (c *RedisUserCache) Get(ctx context.Context, id uint) (models.UserSummary, error) {
	var u models.UserSummary
	raw, err := c.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return u, ErrMiss
	}
	if err != nil {
		return u, err
	}
	if err := json.Unmarshal(raw, &u); err != nil {
		return u, err
	}
	return u, nil
}

func (c *RedisUserCache) Set(ctx context.Context, u models.UserSummary) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(u.ID), raw, c.ttl).Err()
}

func (c *RedisUserCache) Delete(ctx context.Context, id uint) error {
	return c.client.Del(ctx, key(id)).Err()
}

func (c *RedisUserCache) Close() error {
	return c.client.Close()
}

// Noop never stores anything; every Get is a miss.
type Noop struct{}

func (Noop) Get(context.Context, uint) (models.UserSummary, error) {
	return models.UserSummary{}, ErrMiss
}
func (Noop) Set(context.Context, models.UserSummary) error { return nil }
func (Noop) Delete(context.Context, uint) error            { return nil }
