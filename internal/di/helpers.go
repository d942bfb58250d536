package di

import (
	"context"

	"ViralGen/internal/domain/models"
	"ViralGen/pkg/config"
	xhttp "ViralGen/pkg/http"
	applogger "ViralGen/pkg/logger"
	"ViralGen/pkg/queue"
	"ViralGen/pkg/server"
)

func newHTTPServer(cfg *config.Config, sc config.ServerConfig, l *applogger.Logger, h xhttp.Handler) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithHost(sc.Host),
		xhttp.WithPort(sc.Port),
		xhttp.WithTimeouts(sc.ReadTimeout, sc.WriteTimeout, sc.ShutdownTimeout),
		xhttp.WithCORS(true),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path))
	}
	return xhttp.NewServer(l, []xhttp.Handler{h}, opts...)
}

func queueComponent(q queue.Queue) server.Component {
	return server.Component{Name: "queue", Start: func(context.Context) error { return q.Start() }, Stop: q.Stop}
}

func defaultSettings(cfg *config.Config) models.Settings {
	return models.DefaultSettings(cfg.Factory.BackendURL, cfg.Factory.Frequency)
}

// parseNiche falls back to the default category for unknown names.
func parseNiche(name string) models.Niche {
	if n, ok := models.ParseNiche(name); ok {
		return n
	}
	return models.NicheMotivation
}
