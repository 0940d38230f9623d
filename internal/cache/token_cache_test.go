package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRedis struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

type countingRepo struct {
	tokens []string
	err    error
	calls  int
}

func (r *countingRepo) ActiveTokens(_ context.Context, _ string) ([]string, error) {
	r.calls++
	return r.tokens, r.err
}

func TestTokenCache_ActiveTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		rdb := newFakeRedis()
		repo := &countingRepo{tokens: []string{"tok-1", "tok-2"}}
		c := NewTokenCache(rdb, repo, time.Minute, zap.NewNop())

		got, err := c.ActiveTokens(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"tok-1", "tok-2"}, got)
		assert.Equal(t, time.Minute, rdb.ttls["device_tokens:u1"])

		got, err = c.ActiveTokens(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"tok-1", "tok-2"}, got)
		assert.Equal(t, 1, repo.calls)
	})

	t.Run("empty set is cached", func(t *testing.T) {
		rdb := newFakeRedis()
		repo := &countingRepo{}
		c := NewTokenCache(rdb, repo, time.Minute, zap.NewNop())

		got, err := c.ActiveTokens(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Equal(t, "[]", rdb.data["device_tokens:u1"])
	})

	t.Run("redis failure falls back to repository", func(t *testing.T) {
		rdb := newFakeRedis()
		rdb.getErr = errors.New("i/o timeout")
		repo := &countingRepo{tokens: []string{"tok-1"}}
		c := NewTokenCache(rdb, repo, time.Minute, zap.NewNop())

		got, err := c.ActiveTokens(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"tok-1"}, got)
	})

	t.Run("corrupt entry is reloaded", func(t *testing.T) {
		rdb := newFakeRedis()
		rdb.data["device_tokens:u1"] = "{not json"
		repo := &countingRepo{tokens: []string{"tok-9"}}
		c := NewTokenCache(rdb, repo, time.Minute, zap.NewNop())

		got, err := c.ActiveTokens(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"tok-9"}, got)
		assert.Equal(t, `["tok-9"]`, rdb.data["device_tokens:u1"])
	})

	t.Run("repository error", func(t *testing.T) {
		c := NewTokenCache(newFakeRedis(), &countingRepo{err: errors.New("db down")}, time.Minute, zap.NewNop())

		_, err := c.ActiveTokens(ctx, "u1")
		assert.EqualError(t, err, "db down")
	})
}

func TestTokenCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	repo := &countingRepo{tokens: []string{"tok-1"}}
	c := NewTokenCache(rdb, repo, time.Minute, zap.NewNop())

	_, err := c.ActiveTokens(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx, "u1"))
	_, ok := rdb.data["device_tokens:u1"]
	assert.False(t, ok)

	_, err = c.ActiveTokens(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}
