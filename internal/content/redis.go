package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the board cache connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and pings it with a short timeout.
// It returns nil when the server is unreachable so callers run uncached.
func NewRedisClient(opts RedisOptions) *redis.Client {
	if opts.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}

// RedisCache stores board documents as JSON under board:<key>
type RedisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisCache creates a cache with the given entry lifetime
func NewRedisCache(rdb redis.Cmdable, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// Get implements Cache
func (c *RedisCache) Get(ctx context.Context, key string) (*Document, bool, error) {
	bs, err := c.rdb.Get(ctx, "board:"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(bs, &doc); err != nil {
		return nil, false, fmt.Errorf("decode cached board: %w", err)
	}
	return &doc, true, nil
}

// Set implements Cache
func (c *RedisCache) Set(ctx context.Context, key string, doc *Document) error {
	bs, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}
	if err := c.rdb.SetEx(ctx, "board:"+key, bs, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
