package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mc := NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })

	require.NoError(t, mc.Set(ctx, "s", "hello", 0))
	require.NoError(t, mc.Set(ctx, "b", []byte{0, 1, 2}, 0))
	require.NoError(t, mc.Set(ctx, "j", sample{Name: "x", Count: 2, Tags: []string{"a"}}, 0))

	var s string
	require.NoError(t, mc.Get(ctx, "s", &s))
	require.Equal(t, "hello", s)

	var b []byte
	require.NoError(t, mc.Get(ctx, "b", &b))
	require.Equal(t, []byte{0, 1, 2}, b)

	var got sample
	require.NoError(t, mc.Get(ctx, "j", &got))
	require.Equal(t, sample{Name: "x", Count: 2, Tags: []string{"a"}}, got)

	require.ErrorIs(t, mc.Get(ctx, "missing", &s), ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mc := NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })

	require.NoError(t, mc.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var s string
	require.ErrorIs(t, mc.Get(ctx, "k", &s), ErrCacheMiss)
	ok, err := mc.Exists(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	t.Cleanup(func() { _ = mc.Close() })

	require.NoError(t, mc.Set(ctx, "a", "1", 0))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "b", "2", 0))
	time.Sleep(time.Millisecond)

	var s string
	require.NoError(t, mc.Get(ctx, "a", &s))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "c", "3", 0))

	require.Equal(t, 2, mc.Len())
	require.ErrorIs(t, mc.Get(ctx, "b", &s), ErrCacheMiss)
	require.NoError(t, mc.Get(ctx, "a", &s))
}

func TestMemoryCacheLock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mc := NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })

	ok, err := mc.TryLock(ctx, "lock", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = mc.TryLock(ctx, "lock", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, mc.Unlock(ctx, "lock"))
	ok, err = mc.TryLock(ctx, "lock", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLayeredCacheFillsL1FromRemote(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	remote := NewMemoryCache()
	lc := NewLayeredCache(remote)
	t.Cleanup(func() { _ = lc.Close() })

	require.NoError(t, remote.Set(ctx, "k", sample{Name: "remote"}, 0))

	var got sample
	require.NoError(t, lc.Get(ctx, "k", &got))
	require.Equal(t, "remote", got.Name)

	// Served from L1 after the remote copy is gone.
	require.NoError(t, remote.Delete(ctx, "k"))
	got = sample{}
	require.NoError(t, lc.Get(ctx, "k", &got))
	require.Equal(t, "remote", got.Name)

	require.NoError(t, lc.Delete(ctx, "k"))
	require.ErrorIs(t, lc.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestKey(t *testing.T) {
	t.Parallel()
	require.Equal(t, "asset:abc", Key("asset", "abc"))
}
