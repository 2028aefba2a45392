package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"codeberg.org/snonux/freqdeck/internal/logging"
)

// RedisStore keeps one hash per pair. HSETNX gives the same append-only
// semantics as the file store, atomically, so several processes can share
// one cache without losing entries.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// DialRedis connects to redis and verifies the connection
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: redis ping %s: %w", ErrCacheIO, addr, err)
	}
	return client, nil
}

// NewRedisStore wraps a connected client. Keys are namespaced with prefix.
func NewRedisStore(client *redis.Client, prefix string, logger *zap.Logger) *RedisStore {
	if prefix == "" {
		prefix = "freqdeck"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		logger: logging.OrNop(logger),
	}
}

// Key returns the hash holding a pair's translations
func (s *RedisStore) Key(pair Pair) string {
	return fmt.Sprintf("%s:translations:%s", s.prefix, pair)
}

// Get implements Store
func (s *RedisStore) Get(ctx context.Context, pair Pair, text string) (string, bool, error) {
	translation, err := s.client.HGet(ctx, s.Key(pair), text).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: redis hget %s: %w", ErrCacheIO, s.Key(pair), err)
	}
	return translation, true, nil
}

// Put implements Store
func (s *RedisStore) Put(ctx context.Context, pair Pair, text, translation string) error {
	added, err := s.client.HSetNX(ctx, s.Key(pair), text, translation).Result()
	if err != nil {
		return fmt.Errorf("%w: redis hsetnx %s: %w", ErrCacheIO, s.Key(pair), err)
	}
	if !added {
		s.logger.Debug("Translation already cached",
			zap.String("pair", pair.String()),
			zap.String("word", text),
		)
	}
	return nil
}

// Close releases the connection pool
func (s *RedisStore) Close() error {
	return s.client.Close()
}
