package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hetulpatel/stackseed/internal/models"
)

// StatsCache keeps running submission counters per kind and per run.
type StatsCache interface {
	Record(ctx context.Context, sub models.Submission) error
	Counts(ctx context.Context, kind models.Kind) (Counts, error)
	RunCounts(ctx context.Context, runID string) (map[string]int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// Counts are the lifetime counters for one kind.
type Counts struct {
	Sent     int64
	ByStatus map[int]int64
}

type redisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStatsCache builds a stats cache with the given addr/password/db.
// Per-run hashes expire after ttl; kind counters never expire.
func NewRedisStatsCache(addr, password string, db int, ttl time.Duration, prefix string) (StatsCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	if ttl <= 0 {
		ttl = 240 * time.Hour
	}
	if prefix == "" {
		prefix = "seed"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisStatsCache{client: client, ttl: ttl, prefix: prefix}, nil
}

func (c *redisStatsCache) kindKey(kind models.Kind, suffix string) string {
	return fmt.Sprintf("%s:%s:%s", c.prefix, kind, suffix)
}

func (c *redisStatsCache) runKey(runID string) string {
	return fmt.Sprintf("%s:run:%s", c.prefix, runID)
}

func (c *redisStatsCache) Record(ctx context.Context, sub models.Submission) error {
	if c == nil || c.client == nil {
		return nil
	}
	status := strconv.Itoa(sub.StatusCode)
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, c.kindKey(sub.Kind, "sent"))
	pipe.HIncrBy(ctx, c.kindKey(sub.Kind, "status"), status, 1)
	runKey := c.runKey(sub.RunID)
	pipe.HIncrBy(ctx, runKey, "sent", 1)
	pipe.HIncrBy(ctx, runKey, "status:"+status, 1)
	pipe.HSet(ctx, runKey, "last_line", sub.Line)
	pipe.Expire(ctx, runKey, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record stats: %w", err)
	}
	return nil
}

func (c *redisStatsCache) Counts(ctx context.Context, kind models.Kind) (Counts, error) {
	out := Counts{ByStatus: map[int]int64{}}
	if c == nil || c.client == nil {
		return out, nil
	}
	sent, err := c.client.Get(ctx, c.kindKey(kind, "sent")).Int64()
	if err != nil && err != redis.Nil {
		return out, err
	}
	out.Sent = sent

	statuses, err := c.client.HGetAll(ctx, c.kindKey(kind, "status")).Result()
	if err != nil {
		return out, err
	}
	for code, raw := range statuses {
		n, err := strconv.Atoi(code)
		if err != nil {
			continue
		}
		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		out.ByStatus[n] = count
	}
	return out, nil
}

func (c *redisStatsCache) RunCounts(ctx context.Context, runID string) (map[string]int64, error) {
	out := map[string]int64{}
	if c == nil || c.client == nil {
		return out, nil
	}
	fields, err := c.client.HGetAll(ctx, c.runKey(runID)).Result()
	if err != nil {
		return nil, err
	}
	for k, raw := range fields {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			out[k] = n
		}
	}
	return out, nil
}

func (c *redisStatsCache) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

func (c *redisStatsCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
