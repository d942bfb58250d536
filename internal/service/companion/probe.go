package companion

import (
	"context"
	"sync"
	"time"

	"ViralGen/pkg/logger"
)

type Status string

const (
	StatusChecking Status = "CHECKING"
	StatusOnline   Status = "ONLINE"
	StatusOffline  Status = "OFFLINE"
)

// Probe tracks whether the companion node answers. The URL is read on every
// check so settings changes apply without a restart.
type Probe struct {
	client   *Client
	url      func() string
	interval time.Duration
	timeout  time.Duration
	log      *logger.Logger

	mu      sync.RWMutex
	status  Status
	checked time.Time
}

func NewProbe(client *Client, url func() string, interval, timeout time.Duration, log *logger.Logger) *Probe {
	if log == nil {
		log = logger.Nop()
	}
	return &Probe{
		client:   client,
		url:      url,
		interval: interval,
		timeout:  timeout,
		log:      log.Component("companion-probe"),
		status:   StatusChecking,
	}
}

func (p *Probe) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Online reports the last observed status without probing.
func (p *Probe) Online() bool { return p.Status() == StatusOnline }

func (p *Probe) LastChecked() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.checked
}

// Check probes once. A blank URL leaves the status untouched.
func (p *Probe) Check(ctx context.Context) Status {
	url := p.url()
	if url == "" {
		return p.Status()
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	next := StatusOnline
	if err := p.client.Ping(ctx, url); err != nil {
		next = StatusOffline
		p.log.Debug("companion unreachable", logger.String("url", url), logger.Error(err))
	}

	p.mu.Lock()
	prev := p.status
	p.status = next
	p.checked = time.Now()
	p.mu.Unlock()

	if prev != next {
		p.log.Info("companion status changed",
			logger.String("url", url),
			logger.String("from", string(prev)),
			logger.String("to", string(next)),
		)
	}
	return next
}

// Run checks immediately and then every interval until ctx is done.
func (p *Probe) Run(ctx context.Context) {
	p.Check(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Check(ctx)
		}
	}
}
