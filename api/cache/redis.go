package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rafa-porto/dev-connect/api/config"

	"github.com/redis/go-redis/v9"
)

// Connect builds a redis client from either:
// - REDIS_URL (hosted redis, rediss:// enables TLS)
// - or REDIS_ADDR / local fallback
func Connect(cfg *config.Config) (*redis.Client, error) {
	var client *redis.Client

	switch {
	case cfg.RedisURL != "":
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		client = redis.NewClient(opt)

	default:
		addr := cfg.RedisAddr
		if addr == "" {
			addr = "localhost:6379"
		}
		client = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.RedisPassword,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Store wraps a redis client. A Store without a client is a disabled cache: reads miss
// and writes are dropped, so callers never need to branch on whether redis is up.
type Store struct {
	client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if !s.Enabled() {
		return "", nil
	}

	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Set(ctx, key, value, ttl).Err()
}

// GetJSON decodes the cached value into dest and reports whether there was a hit.
func (s *Store) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil || raw == "" {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, payload, ttl)
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if !s.Enabled() || len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Generation reads a counter written by Bump. A missing counter is generation zero.
func (s *Store) Generation(ctx context.Context, key string) (int64, error) {
	if !s.Enabled() {
		return 0, nil
	}
	gen, err := s.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

// Bump advances each generation counter in one round trip. Counters never expire.
func (s *Store) Bump(ctx context.Context, keys ...string) error {
	if !s.Enabled() || len(keys) == 0 {
		return nil
	}
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Incr(ctx, key)
		}
		return nil
	})
	return err
}

func (s *Store) DeleteByPrefix(ctx context.Context, prefix string) error {
	if !s.Enabled() {
		return nil
	}

	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}

func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Close()
}

const (
	followingPrefix    = "following:v2:"
	followingGenPrefix = "following:gen:"
	trendingPrefix     = "hashtags:trending:v1:"
)

// FollowingKey holds the full set of ids a user follows, tagged with the generation it was
// read under.
func FollowingKey(userID string) string {
	return followingPrefix + userID
}

// FollowingGenerationKey counts committed changes to a user's following set.
func FollowingGenerationKey(userID string) string {
	return followingGenPrefix + userID
}

func TrendingKey(limit int) string {
	return fmt.Sprintf("%s%d", trendingPrefix, limit)
}

func TrendingPrefix() string {
	return trendingPrefix
}
