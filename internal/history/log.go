// Package history provides a bounded, newest-first log.
package history

import "sync"

// Log holds at most Max entries, newest first. Pushing onto a full log
// evicts the oldest entry. A non-positive max means unbounded.
// Log is safe for concurrent use.
type Log[T any] struct {
	mu    sync.RWMutex
	max   int
	items []T // ring when bounded, append-only when unbounded
	head  int // index of the oldest entry when bounded
	n     int
}

func New[T any](max int) *Log[T] {
	l := &Log[T]{max: max}
	if max > 0 {
		l.items = make([]T, max)
	}
	return l
}

// Push inserts v as the newest entry.
func (l *Log[T]) Push(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.max <= 0 {
		l.items = append(l.items, v)
		l.n++
		return
	}
	if l.n < l.max {
		l.items[(l.head+l.n)%l.max] = v
		l.n++
		return
	}
	l.items[l.head] = v
	l.head = (l.head + 1) % l.max
}

// Snapshot returns a newest-first copy.
func (l *Log[T]) Snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]T, l.n)
	for i := 0; i < l.n; i++ {
		out[i] = l.at(l.n - 1 - i)
	}
	return out
}

// Latest returns the newest entry.
func (l *Log[T]) Latest() (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.n == 0 {
		var zero T
		return zero, false
	}
	return l.at(l.n - 1), true
}

func (l *Log[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.n
}

func (l *Log[T]) Max() int { return l.max }

// at returns the i-th oldest entry. Caller holds the lock.
func (l *Log[T]) at(i int) T {
	if l.max <= 0 {
		return l.items[i]
	}
	return l.items[(l.head+i)%l.max]
}
