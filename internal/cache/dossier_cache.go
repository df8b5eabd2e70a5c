// Package cache provides a Redis read-through cache for current dossier
// snapshots. The store stays authoritative; a cold or absent cache only
// costs a database read.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"exitlens/api/internal/store"
)

const keyPrefix = "dossier:current:"

type DossierCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection.
func New(redisURL string, ttl time.Duration) (*DossierCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &DossierCache{client: client, ttl: ttl}, nil
}

// NewWithClient wraps an existing Redis client.
func NewWithClient(client *redis.Client, ttl time.Duration) *DossierCache {
	return &DossierCache{client: client, ttl: ttl}
}

func (c *DossierCache) key(companyID string) string {
	return keyPrefix + companyID
}

// Get returns the cached head snapshot, or nil on a miss.
func (c *DossierCache) Get(ctx context.Context, companyID string) (*store.Snapshot, error) {
	data, err := c.client.Get(ctx, c.key(companyID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var snapshot store.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal cached snapshot: %w", err)
	}
	return &snapshot, nil
}

// Put stores the head snapshot, replacing any previous entry for the
// company.
func (c *DossierCache) Put(ctx context.Context, snapshot store.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key(snapshot.CompanyID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Invalidate drops the cached entry for a company.
func (c *DossierCache) Invalidate(ctx context.Context, companyID string) error {
	if err := c.client.Del(ctx, c.key(companyID)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *DossierCache) Close() error {
	return c.client.Close()
}

// Ping checks if Redis is reachable
func (c *DossierCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
