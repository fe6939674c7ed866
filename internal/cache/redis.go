package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golfref/archival/internal/metrics"
	"golfref/archival/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisCache caches consolidated career records. Reads serve the
// career-manage show path; every upsert invalidates the referee's entry.
// The cache is an optimization only: callers fall back to the database on
// any miss or error.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Config holds Redis connection configuration
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	log.Info().Str("host", cfg.Host).Str("port", cfg.Port).Msg("Connected to Redis")
	return &RedisCache{client: client, ttl: ttl}, nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func careerKey(refereeID int64) string {
	return fmt.Sprintf("career:%d", refereeID)
}

// GetCareer returns the cached record, or (nil, nil) on a miss.
func (c *RedisCache) GetCareer(ctx context.Context, refereeID int64) (*models.CareerRecord, error) {
	data, err := c.client.Get(ctx, careerKey(refereeID)).Bytes()
	if err == redis.Nil {
		metrics.RecordCacheMiss()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached career record: %w", err)
	}

	var rec models.CareerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		// A stale or corrupt entry behaves like a miss.
		metrics.RecordCacheMiss()
		return nil, nil
	}

	metrics.RecordCacheHit()
	return &rec, nil
}

// SetCareer stores the record under the referee's key.
func (c *RedisCache) SetCareer(ctx context.Context, rec *models.CareerRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode career record: %w", err)
	}

	if err := c.client.Set(ctx, careerKey(rec.RefereeID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache career record: %w", err)
	}

	return nil
}

// Invalidate drops the referee's cached record. Satisfies archive.Invalidator.
func (c *RedisCache) Invalidate(ctx context.Context, refereeID int64) error {
	if err := c.client.Del(ctx, careerKey(refereeID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached career record: %w", err)
	}
	return nil
}
