package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalLocker(t *testing.T) {
	var l LocalLocker
	ctx := context.Background()

	release, ok, err := l.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "second tick must not run while the first holds the lock")

	release()
	release2, ok, err := l.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	release2()
}

func newRedisLockers(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *RedisLocker, *RedisLocker) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	// two replicas sharing one key
	a := NewRedisLocker(rdb, "nikiplan:tick", ttl, zap.NewNop())
	b := NewRedisLocker(rdb, "nikiplan:tick", ttl, zap.NewNop())
	return mr, a, b
}

func TestRedisLocker_AcquireContendRelease(t *testing.T) {
	mr, a, b := newRedisLockers(t, time.Minute)
	ctx := context.Background()

	release, ok, err := a.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("nikiplan:tick"))
	assert.Equal(t, time.Minute, mr.TTL("nikiplan:tick"))

	_, ok, err = b.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	release()
	assert.False(t, mr.Exists("nikiplan:tick"))

	releaseB, ok, err := b.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	releaseB()
}

func TestRedisLocker_ExpiredReleaseKeepsNewHolder(t *testing.T) {
	mr, a, b := newRedisLockers(t, time.Second)
	ctx := context.Background()

	releaseA, ok, err := a.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	_, ok, err = b.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	holder, err := mr.Get("nikiplan:tick")
	require.NoError(t, err)

	releaseA()

	got, err := mr.Get("nikiplan:tick")
	require.NoError(t, err)
	assert.Equal(t, holder, got)

	_, ok, err = a.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisLocker_TokensDifferPerAcquire(t *testing.T) {
	mr, a, _ := newRedisLockers(t, time.Minute)
	ctx := context.Background()

	release, ok, err := a.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	first, err := mr.Get("nikiplan:tick")
	require.NoError(t, err)
	release()

	release, ok, err = a.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	second, err := mr.Get("nikiplan:tick")
	require.NoError(t, err)
	release()

	assert.NotEqual(t, first, second)
}

func TestRedisLocker_AcquireError(t *testing.T) {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	_, ok, err := NewRedisLocker(rdb, "nikiplan:tick", time.Minute, zap.NewNop()).TryLock(context.Background())
	assert.False(t, ok)
	assert.ErrorContains(t, err, "nikiplan:tick")
}
