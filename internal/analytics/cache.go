package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/edoardok-cmd/BOOM-Card-sub004/internal/config"
	"github.com/edoardok-cmd/BOOM-Card-sub004/internal/models"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a new Redis client
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Host == "" {
		return nil, nil // Redis is optional
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// CloseRedisClient closes Redis client connection
func CloseRedisClient(client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}

const cacheOpTimeout = 3 * time.Second

// Cache publishes metric snapshots to Redis under deterministic keys:
//
//	analytics:{granularity}:platform:{windowStart}
//	analytics:{granularity}:partner:{partnerId}:{windowStart}
//
// Snapshots carry decimals as exact strings and expire with the window's
// TTL. The cache is derivable from the durable store at any time; with a
// nil client (development) every operation is a no-op.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Enabled reports whether a Redis client is configured; with no client every
// cache operation is a no-op.
func (c *Cache) Enabled() bool {
	return c.client != nil
}

func platformKey(w Window) string {
	return fmt.Sprintf("analytics:%s:platform:%s", w.Granularity, w.KeyPart())
}

func partnerKey(w Window, partnerID string) string {
	return fmt.Sprintf("analytics:%s:partner:%s:%s", w.Granularity, partnerID, w.KeyPart())
}

func (c *Cache) SetPlatform(w Window, metric *models.PlatformMetric) error {
	return c.set(platformKey(w), metric, w.CacheTTL())
}

func (c *Cache) SetPartner(w Window, metric *models.PartnerMetric) error {
	return c.set(partnerKey(w, metric.PartnerID), metric, w.CacheTTL())
}

// GetPlatform returns the cached snapshot for the window, or nil when the
// key is missing or expired.
func (c *Cache) GetPlatform(w Window) (*models.PlatformMetric, error) {
	var metric models.PlatformMetric
	found, err := c.get(platformKey(w), &metric)
	if err != nil || !found {
		return nil, err
	}
	return &metric, nil
}

func (c *Cache) GetPartner(w Window, partnerID string) (*models.PartnerMetric, error) {
	var metric models.PartnerMetric
	found, err := c.get(partnerKey(w, partnerID), &metric)
	if err != nil || !found {
		return nil, err
	}
	return &metric, nil
}

func (c *Cache) set(key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot %s: %w", key, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()

	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache snapshot %s: %w", key, err)
	}
	return nil
}

func (c *Cache) get(key string, out interface{}) (bool, error) {
	if c.client == nil {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("failed to decode snapshot %s: %w", key, err)
	}
	return true, nil
}
