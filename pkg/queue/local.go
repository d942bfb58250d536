package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ViralGen/pkg/logger"
)

// LocalQueue runs jobs on in-process workers. Retries are re-enqueued after
// RetryDelay; messages that exhaust RetryLimit are logged and dropped.
type LocalQueue struct {
	logger *logger.Logger
	config QueueConfig
	jobs   map[string]Job
	msgs   chan Message

	mu      sync.RWMutex
	running bool
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewLocalQueue creates an in-process queue.
func NewLocalQueue(lgr *logger.Logger, config QueueConfig) *LocalQueue {
	config.normalize()
	ctx, cancel := context.WithCancel(context.Background())
	return &LocalQueue{
		logger: lgr.Component("queue"),
		config: config,
		jobs:   make(map[string]Job),
		msgs:   make(chan Message, config.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (q *LocalQueue) RegisterJob(job Job) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, exists := q.jobs[job.Type()]; exists {
		q.logger.Warn("job already registered", logger.String("job", job.Name()))
		return
	}
	q.jobs[job.Type()] = job
}

func (q *LocalQueue) Start() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return fmt.Errorf("queue already running")
	}
	q.running = true
	for i := 0; i < q.config.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.logger.Info("local queue started", logger.Int("workers", q.config.Workers))
	return nil
}

func (q *LocalQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return nil
	}
	q.running = false
	q.cancel()
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return fmt.Errorf("timeout waiting for queue workers: %w", ctx.Err())
	case <-done:
		return nil
	}
}

// PublishMessage enqueues without blocking; a full buffer is an error.
func (q *LocalQueue) PublishMessage(_ context.Context, msgType string, payload interface{}) error {
	q.mu.RLock()
	running := q.running
	_, registered := q.jobs[msgType]
	q.mu.RUnlock()

	if !running {
		return fmt.Errorf("queue not running")
	}
	if !registered {
		return fmt.Errorf("no job registered for type: %s", msgType)
	}

	msg, err := newMessage(msgType, payload)
	if err != nil {
		return err
	}
	return q.push(msg)
}

func (q *LocalQueue) push(msg Message) error {
	select {
	case q.msgs <- msg:
		return nil
	default:
		return fmt.Errorf("queue full (%d)", cap(q.msgs))
	}
}

func (q *LocalQueue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case msg := <-q.msgs:
			q.process(msg)
		}
	}
}

func (q *LocalQueue) process(msg Message) {
	q.mu.RLock()
	job := q.jobs[msg.Type]
	q.mu.RUnlock()
	if job == nil {
		return
	}

	err := job.Handle(q.ctx, msg.Payload)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}

	q.logger.Error("message processing error",
		logger.String("id", msg.ID),
		logger.String("job", job.Name()),
		logger.Int("attempt", msg.Attempts+1),
		logger.Error(err))

	if msg.Attempts >= q.config.RetryLimit {
		q.logger.Error("max retries reached, dropping",
			logger.String("id", msg.ID),
			logger.String("job", job.Name()))
		return
	}

	msg.Attempts++
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		select {
		case <-q.ctx.Done():
		case <-time.After(q.config.RetryDelay):
			if err := q.push(msg); err != nil {
				q.logger.Warn("retry dropped", logger.String("id", msg.ID), logger.Error(err))
			}
		}
	}()
}
