package history

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLogNewestFirst(t *testing.T) {
	t.Parallel()
	l := New[int](5)
	for i := 1; i <= 3; i++ {
		l.Push(i)
	}
	require.Equal(t, []int{3, 2, 1}, l.Snapshot())

	latest, ok := l.Latest()
	require.True(t, ok)
	require.Equal(t, 3, latest)
}

func TestLogEvictsOldest(t *testing.T) {
	t.Parallel()
	l := New[string](2)
	l.Push("a")
	l.Push("b")
	l.Push("c")

	require.Equal(t, 2, l.Len())
	require.Equal(t, []string{"c", "b"}, l.Snapshot())
}

func TestLogEmpty(t *testing.T) {
	t.Parallel()
	l := New[int](15)
	_, ok := l.Latest()
	require.False(t, ok)
	require.Empty(t, l.Snapshot())
	require.NotNil(t, l.Snapshot())
}

func TestLogUnbounded(t *testing.T) {
	t.Parallel()
	l := New[int](0)
	for i := 0; i < 100; i++ {
		l.Push(i)
	}
	snap := l.Snapshot()
	require.Len(t, snap, 100)
	require.Equal(t, 99, snap[0])
	require.Equal(t, 0, snap[99])
}

func TestLogCapProperty(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		max := rapid.IntRange(1, 20).Draw(t, "max")
		n := rapid.IntRange(0, 100).Draw(t, "n")

		l := New[int](max)
		for i := 0; i < n; i++ {
			l.Push(i)
			if l.Len() > max {
				t.Fatalf("len %d exceeds max %d", l.Len(), max)
			}
		}

		want := n
		if want > max {
			want = max
		}
		snap := l.Snapshot()
		if len(snap) != want {
			t.Fatalf("len %d, want %d", len(snap), want)
		}
		for i, v := range snap {
			if v != n-1-i {
				t.Fatalf("snap[%d] = %d, want %d", i, v, n-1-i)
			}
		}
	})
}

func TestLogConcurrentPush(t *testing.T) {
	t.Parallel()
	l := New[int](15)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				l.Push(i)
				_ = l.Snapshot()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 15, l.Len())
}
