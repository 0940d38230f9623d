package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/metrics"
)

const tokenKeyPrefix = "device_tokens:"

type TokenRepository interface {
	ActiveTokens(ctx context.Context, userID string) ([]string, error)
}

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// TokenCache is a read-through cache of active device tokens per user.
// Redis failures degrade to reading the repository directly.
type TokenCache struct {
	rdb    redisClient
	repo   TokenRepository
	ttl    time.Duration
	logger *zap.Logger
}

func NewTokenCache(rdb redisClient, repo TokenRepository, ttl time.Duration, logger *zap.Logger) *TokenCache {
	return &TokenCache{
		rdb:    rdb,
		repo:   repo,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *TokenCache) ActiveTokens(ctx context.Context, userID string) ([]string, error) {
	key := tokenKeyPrefix + userID

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var tokens []string
		if jsonErr := json.Unmarshal(raw, &tokens); jsonErr == nil {
			metrics.TokenCacheRequestsTotal.WithLabelValues("hit").Inc()
			return tokens, nil
		}
		c.logger.Warn("Cache: corrupt token entry", zap.String("user_id", userID))
		metrics.TokenCacheRequestsTotal.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.TokenCacheRequestsTotal.WithLabelValues("miss").Inc()
	default:
		c.logger.Warn("Cache: token lookup failed", zap.String("user_id", userID), zap.Error(err))
		metrics.TokenCacheRequestsTotal.WithLabelValues("error").Inc()
	}

	tokens, err := c.repo.ActiveTokens(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tokens == nil {
		tokens = []string{}
	}

	data, err := json.Marshal(tokens)
	if err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("Cache: failed to store tokens", zap.String("user_id", userID), zap.Error(err))
		}
	}

	return tokens, nil
}

// Invalidate drops the cached token set of userID.
func (c *TokenCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.rdb.Del(ctx, tokenKeyPrefix+userID).Err(); err != nil {
		return err
	}
	c.logger.Debug("Cache: invalidated tokens", zap.String("user_id", userID))
	return nil
}
