package server

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	xhttp "ViralGen/pkg/http"
	"ViralGen/pkg/logger"
)

// Component is a unit with a managed lifecycle. Start must not block;
// long-running work belongs in Loop, which runs until its context is done.
type Component struct {
	Name  string
	Start func(ctx context.Context) error
	Loop  func(ctx context.Context)
	Stop  func(ctx context.Context) error
}

// App owns every long-lived piece of one service and its shutdown order.
type App struct {
	name            string
	log             *logger.Logger
	http            *xhttp.Server
	components      []Component
	shutdownTimeout time.Duration
}

// New creates an App. httpServer may be nil for headless services.
func New(name string, log *logger.Logger, httpServer *xhttp.Server, shutdownTimeout time.Duration) *App {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &App{
		name:            name,
		log:             log.Component(name),
		http:            httpServer,
		shutdownTimeout: shutdownTimeout,
	}
}

// Add registers a component. Components start in order and stop in reverse.
func (a *App) Add(c Component) *App {
	a.components = append(a.components, c)
	return a
}

// HTTP returns the app's HTTP server, if any.
func (a *App) HTTP() *xhttp.Server { return a.http }

// Run starts everything and blocks until SIGINT/SIGTERM or ctx cancellation.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	started := 0
	for _, c := range a.components {
		if c.Start != nil {
			if err := c.Start(ctx); err != nil {
				a.log.Error("component start failed", logger.String("name", c.Name), logger.Error(err))
				a.stopComponents(started)
				return fmt.Errorf("start %s: %w", c.Name, err)
			}
		}
		started++
	}

	var loops sync.WaitGroup
	for _, c := range a.components {
		if c.Loop == nil {
			continue
		}
		loops.Add(1)
		go func(c Component) {
			defer loops.Done()
			c.Loop(ctx)
		}(c)
	}

	if a.http != nil {
		if err := a.http.Start(); err != nil {
			stop()
			loops.Wait()
			a.stopComponents(started)
			return fmt.Errorf("start http: %w", err)
		}
	}
	a.log.Info("running", logger.Int("components", len(a.components)))

	<-ctx.Done()
	a.log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	if a.http != nil {
		if err := a.http.Stop(shutdownCtx); err != nil {
			a.log.Error("http shutdown error", logger.Error(err))
		}
	}
	loops.Wait()
	a.stopComponents(started)

	a.log.Info("shutdown complete")
	return nil
}

func (a *App) stopComponents(n int) {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	for i := n - 1; i >= 0; i-- {
		c := a.components[i]
		if c.Stop == nil {
			continue
		}
		if err := c.Stop(ctx); err != nil {
			a.log.Warn("component stop error", logger.String("name", c.Name), logger.Error(err))
		}
	}
}

// Closer adapts an io.Closer-style Close into a Stop func.
func Closer(close func() error) func(context.Context) error {
	return func(context.Context) error { return close() }
}
