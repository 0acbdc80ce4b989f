package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "chemibot:answer:"

// AnswerCache stores generated answers. Decoding is greedy, so an answer depends only
// on the scope (the model and its generation settings) and the question.
type AnswerCache interface {
	// Get reports a miss on any error.
	Get(ctx context.Context, scope, question string) (string, bool)
	// Set is best effort; failures are logged.
	Set(ctx context.Context, scope, question, answer string)
	Close() error
}

type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache connects to the Redis server at url. An empty url yields a cache that
// never hits.
func NewRedisCache(ctx context.Context, url string, ttl time.Duration) (AnswerCache, error) {
	if url == "" {
		return Nop(), nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		// Redis may come up after us; go-redis reconnects on later commands.
		slog.Warn("Redis is not reachable yet, answers will not be cached until it is", "error", err)
	}
	return NewFromClient(rdb, ttl), nil
}

func NewFromClient(rdb *redis.Client, ttl time.Duration) AnswerCache {
	return &redisCache{rdb: rdb, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, scope, question string) (string, bool) {
	answer, err := c.rdb.Get(ctx, Key(scope, question)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("Answer cache lookup failed", "error", err)
		}
		return "", false
	}
	return answer, true
}

func (c *redisCache) Set(ctx context.Context, scope, question, answer string) {
	if err := c.rdb.Set(ctx, Key(scope, question), answer, c.ttl).Err(); err != nil {
		slog.Warn("Answer cache store failed", "error", err)
	}
}

func (c *redisCache) Close() error {
	return c.rdb.Close()
}

// Key is the cache key for a question. Whitespace differences do not change the key
// because the engine collapses whitespace before generation.
func Key(scope, question string) string {
	normalized := strings.Join(strings.Fields(question), " ")
	sum := sha256.Sum256([]byte(scope + "\x00" + normalized))
	return keyPrefix + hex.EncodeToString(sum[:])
}

type nopCache struct{}

// Nop returns a cache that stores nothing.
func Nop() AnswerCache { return nopCache{} }

func (nopCache) Get(context.Context, string, string) (string, bool) { return "", false }
func (nopCache) Set(context.Context, string, string, string)        {}
func (nopCache) Close() error                                       { return nil }
