package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rao-samarth/timetable-generator/config"
	"github.com/rao-samarth/timetable-generator/internal/model"
)

// Client wraps the Redis connection. Used for the merged course-list cache
// and request rate limiting; the whole service degrades gracefully when the
// client is nil.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects and ping-checks Redis.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── course-list cache ──

const coursesKey = "catalog:courses"

// ErrCacheMiss is returned when the course list is not cached.
var ErrCacheMiss = errors.New("course list not in cache")

// CacheCourses stores the merged course list with a TTL.
func (c *Client) CacheCourses(ctx context.Context, courses []model.Course, ttl time.Duration) error {
	data, err := json.Marshal(courses)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, coursesKey, data, ttl).Err()
}

// CachedCourses loads the cached course list, ErrCacheMiss when absent.
func (c *Client) CachedCourses(ctx context.Context) ([]model.Course, error) {
	data, err := c.rdb.Get(ctx, coursesKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var courses []model.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// InvalidateCourses drops the cached course list.
func (c *Client) InvalidateCourses(ctx context.Context) error {
	return c.rdb.Del(ctx, coursesKey).Err()
}

// ── rate limiting ──

// CheckRateLimit implements a fixed-window counter per key: at most limit
// requests per window. The first request in a window sets the expiry.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
