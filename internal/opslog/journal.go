// Package opslog keeps the operator-facing terminal log of an engine:
// a capped newest-first journal mirrored into the structured logger and
// fanned out to live subscribers.
package opslog

import (
	"fmt"
	"sync"
	"time"

	"ViralGen/internal/domain/models"
	"ViralGen/internal/history"
	"ViralGen/pkg/logger"
)

const timeLayout = "15:04:05"

type Option func(*Journal)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

type Journal struct {
	log     *logger.Logger
	entries *history.Log[models.LogEntry]
	now     func() time.Time

	mu     sync.Mutex
	lastID int64

	subsMu  sync.RWMutex
	subs    map[int]chan models.LogEntry
	nextSub int
}

// New creates a journal holding at most capacity entries.
func New(capacity int, log *logger.Logger, opts ...Option) *Journal {
	if log == nil {
		log = logger.Nop()
	}
	j := &Journal{
		log:     log,
		entries: history.New[models.LogEntry](capacity),
		now:     time.Now,
		subs:    make(map[int]chan models.LogEntry),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Add records an entry. Entry ids are unix milliseconds, bumped when two
// entries land in the same millisecond so they stay strictly increasing.
func (j *Journal) Add(typ models.LogType, content string) models.LogEntry {
	now := j.now()

	j.mu.Lock()
	id := now.UnixMilli()
	if id <= j.lastID {
		id = j.lastID + 1
	}
	j.lastID = id
	entry := models.LogEntry{
		ID:      id,
		Time:    now.Format(timeLayout),
		Type:    typ,
		Content: content,
	}
	j.entries.Push(entry)
	j.mu.Unlock()

	j.mirror(entry)
	j.broadcast(entry)
	return entry
}

func (j *Journal) System(format string, args ...interface{}) models.LogEntry {
	return j.Add(models.LogSystem, fmt.Sprintf(format, args...))
}

func (j *Journal) Response(format string, args ...interface{}) models.LogEntry {
	return j.Add(models.LogResponse, fmt.Sprintf(format, args...))
}

func (j *Journal) Warn(format string, args ...interface{}) models.LogEntry {
	return j.Add(models.LogWarn, fmt.Sprintf(format, args...))
}

func (j *Journal) Error(format string, args ...interface{}) models.LogEntry {
	return j.Add(models.LogError, fmt.Sprintf(format, args...))
}

// Entries returns a newest-first copy.
func (j *Journal) Entries() []models.LogEntry {
	return j.entries.Snapshot()
}

// Lines renders entries newest-first as "[time] content".
func (j *Journal) Lines() []string {
	entries := j.entries.Snapshot()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Line()
	}
	return out
}

// Subscribe returns a channel receiving every entry added from now on and
// a cancel func. Slow subscribers miss entries rather than block writers.
func (j *Journal) Subscribe(buffer int) (<-chan models.LogEntry, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan models.LogEntry, buffer)

	j.subsMu.Lock()
	id := j.nextSub
	j.nextSub++
	j.subs[id] = ch
	j.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			j.subsMu.Lock()
			delete(j.subs, id)
			j.subsMu.Unlock()
			close(ch)
		})
	}
}

func (j *Journal) broadcast(e models.LogEntry) {
	j.subsMu.RLock()
	defer j.subsMu.RUnlock()
	for _, ch := range j.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (j *Journal) mirror(e models.LogEntry) {
	fields := []logger.Field{
		logger.Int64("entry_id", e.ID),
		logger.String("type", string(e.Type)),
	}
	switch e.Type {
	case models.LogError:
		j.log.Error(e.Content, fields...)
	case models.LogWarn:
		j.log.Warn(e.Content, fields...)
	default:
		j.log.Info(e.Content, fields...)
	}
}
