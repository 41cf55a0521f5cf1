// Package cache stores computed aggregates in redis. Keys embed a generation
// number; Invalidate bumps the generation so every older entry becomes
// unreachable at once and simply expires.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "stats:"
	generationKey = keyPrefix + "generation"
)

type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Connect builds a client and verifies the connection.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (c *StatsCache) generation(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, generationKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return strconv.ParseInt(v, 10, 64)
}

func (c *StatsCache) key(ctx context.Context, name string) (string, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d:%s", keyPrefix, gen, name), nil
}

// Get decodes the cached value for name into dst and reports whether it hit.
// The returned key pins the generation the lookup saw; a value computed after
// a miss must be stored under that key with Set, so a concurrent Invalidate
// leaves it in the retired generation. key is empty when no generation could
// be read.
func (c *StatsCache) Get(ctx context.Context, name string, dst any) (key string, hit bool, err error) {
	key, err = c.key(ctx, name)
	if err != nil {
		return "", false, err
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return key, false, nil
	}
	if err != nil {
		return key, false, fmt.Errorf("redis get %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return key, false, fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return key, true, nil
}

// Set stores v under a key returned by Get.
func (c *StatsCache) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *StatsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("redis incr generation: %w", err)
	}
	return nil
}
