// Package scheduler decides when a generation cycle runs: on countdown
// expiry while armed, or on manual trigger, never more than one at a time.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ViralGen/pkg/logger"
)

var ErrInvalidInterval = errors.New("scheduler: interval must be positive")

// Cycle is one generation run. Its error is reported, never propagated to the loop.
type Cycle func(ctx context.Context) error

// State is a point-in-time snapshot.
type State struct {
	Armed           bool      `json:"armed"`
	Countdown       int       `json:"countdown"`
	IntervalMinutes int       `json:"intervalMinutes"`
	Busy            bool      `json:"busy"`
	Cycles          int       `json:"cycles"`
	LastCycleAt     time.Time `json:"lastCycleAt,omitempty"`
}

// CycleReport describes a finished cycle.
type CycleReport struct {
	Manual   bool
	Duration time.Duration
	Err      error
}

type manualKey struct{}

// Manual reports whether the cycle running under ctx was triggered by hand.
func Manual(ctx context.Context) bool {
	m, _ := ctx.Value(manualKey{}).(bool)
	return m
}

type Option func(*Scheduler)

func WithLogger(l *logger.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithOnCycle registers an observer called after every cycle.
func WithOnCycle(fn func(CycleReport)) Option {
	return func(s *Scheduler) { s.onCycle = fn }
}

// WithOnTick registers an observer called after every armed tick.
func WithOnTick(fn func(State)) Option {
	return func(s *Scheduler) { s.onTick = fn }
}

// WithTickInterval overrides the 1s period used by Run.
func WithTickInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.tickEvery = d }
}

type Scheduler struct {
	cycle     Cycle
	log       *logger.Logger
	onCycle   func(CycleReport)
	onTick    func(State)
	tickEvery time.Duration

	mu        sync.Mutex
	armed     bool
	countdown int
	interval  int
	busy      bool
	cycles    int
	lastCycle time.Time
}

func New(cycle Cycle, intervalMinutes int, opts ...Option) *Scheduler {
	s := &Scheduler{
		cycle:     cycle,
		log:       logger.Nop(),
		tickEvery: time.Second,
		interval:  intervalMinutes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Arm starts a fresh countdown of intervalMinutes×60 seconds.
func (s *Scheduler) Arm(intervalMinutes int) error {
	if intervalMinutes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, intervalMinutes)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = true
	s.interval = intervalMinutes
	s.countdown = intervalMinutes * 60
	return nil
}

// ArmImmediate arms with a zero countdown so the next tick fires a cycle.
func (s *Scheduler) ArmImmediate(intervalMinutes int) error {
	if intervalMinutes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, intervalMinutes)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = true
	s.interval = intervalMinutes
	s.countdown = 0
	return nil
}

// Disarm stops the countdown. An in-flight cycle is not interrupted.
func (s *Scheduler) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = false
	s.countdown = 0
}

// SetInterval changes the interval used by the next countdown reset.
func (s *Scheduler) SetInterval(intervalMinutes int) error {
	if intervalMinutes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, intervalMinutes)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = intervalMinutes
	return nil
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Scheduler) stateLocked() State {
	return State{
		Armed:           s.armed,
		Countdown:       s.countdown,
		IntervalMinutes: s.interval,
		Busy:            s.busy,
		Cycles:          s.cycles,
		LastCycleAt:     s.lastCycle,
	}
}

// Tick advances the countdown by one second. When it reaches zero and no
// cycle is in flight, one cycle runs synchronously before Tick returns.
func (s *Scheduler) Tick(ctx context.Context) {
	s.mu.Lock()
	if !s.armed {
		s.mu.Unlock()
		return
	}
	if s.countdown > 0 {
		s.countdown--
	}
	fire := s.countdown == 0 && !s.busy
	if fire {
		s.busy = true
	}
	st := s.stateLocked()
	s.mu.Unlock()

	if s.onTick != nil {
		s.onTick(st)
	}
	if fire {
		s.run(ctx, false)
	}
}

// TriggerManual runs one cycle now regardless of armed state. It returns
// false without running anything when a cycle is already in flight.
func (s *Scheduler) TriggerManual(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return false, nil
	}
	s.busy = true
	s.mu.Unlock()

	return true, s.run(ctx, true)
}

// run executes the cycle. Caller has set busy.
func (s *Scheduler) run(ctx context.Context, manual bool) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panic: %v", r)
		}

		s.mu.Lock()
		s.busy = false
		s.cycles++
		s.lastCycle = time.Now()
		if s.armed {
			s.countdown = s.interval * 60
		}
		s.mu.Unlock()

		if err != nil {
			s.log.Warn("cycle failed", logger.Bool("manual", manual), logger.Error(err))
		}
		if s.onCycle != nil {
			s.onCycle(CycleReport{Manual: manual, Duration: time.Since(start), Err: err})
		}
	}()

	return s.cycle(context.WithValue(ctx, manualKey{}, manual))
}

// Run drives Tick every second until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}
