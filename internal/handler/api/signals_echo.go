package api

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"ViralGen/internal/domain/models"
	"ViralGen/internal/service/ratelimit"
	"ViralGen/internal/usecase"
	xhttp "ViralGen/pkg/http"
	applogger "ViralGen/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SignalsEchoHandler serves the signal engine's API and its static
// dashboard. The wire shapes ({success:true}, {error:"Not found"}) are the
// ones the dashboard expects rather than the APIResponse envelope.
type SignalsEchoHandler struct {
	logger  *applogger.Logger
	engine  *usecase.SignalEngine
	limiter *ratelimit.Limiter
	static  fs.FS
}

// NewSignalsEchoHandler builds the handler. limiter and static may be nil.
func NewSignalsEchoHandler(logger *applogger.Logger, engine *usecase.SignalEngine, limiter *ratelimit.Limiter, static fs.FS) *SignalsEchoHandler {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &SignalsEchoHandler{logger: logger.Component("signals-api"), engine: engine, limiter: limiter, static: static}
}

func (h *SignalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/status", h.Status)
	g.POST("/config", h.UpdateConfig)
	if h.limiter != nil {
		g.POST("/manual-scan", h.ManualScan, ratelimit.Middleware(h.limiter))
	} else {
		g.POST("/manual-scan", h.ManualScan)
	}
	g.GET("/logs/stream", NewLogStreamHandler(h.engine.Journal(), h.logger).Stream)
	g.Any("", h.NotFound)
	g.Any("/*", h.NotFound)

	if h.static != nil {
		e.GET("/*", h.Static)
	}
}

func (h *SignalsEchoHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.Status())
}

func (h *SignalsEchoHandler) UpdateConfig(c echo.Context) error {
	var patch models.SignalConfigPatch
	if err := c.Bind(&patch); err != nil {
		return xhttp.FailureJSON(c, http.StatusBadRequest, "invalid config payload")
	}
	h.engine.UpdateConfig(patch)
	return xhttp.SuccessJSON(c)
}

// ManualScan runs a scan and answers once it finishes. A failing scan still
// answers success; the failure is in the operator log.
func (h *SignalsEchoHandler) ManualScan(c echo.Context) error {
	err := h.engine.ManualScan(c.Request().Context())
	if errors.Is(err, usecase.ErrBusy) {
		return xhttp.FailureJSON(c, http.StatusConflict, "scan already running")
	}
	if err != nil {
		h.logger.Warn("manual scan failed", applogger.Error(err))
	}
	return xhttp.SuccessJSON(c)
}

func (h *SignalsEchoHandler) NotFound(c echo.Context) error {
	return xhttp.ErrorJSON(c, http.StatusNotFound, "Not found")
}

// Static serves the dashboard, falling back to index.html for unknown paths.
// Anything starting with /api never reaches the page.
func (h *SignalsEchoHandler) Static(c echo.Context) error {
	if strings.HasPrefix(c.Request().URL.Path, "/api") {
		return h.NotFound(c)
	}
	name := strings.TrimPrefix(path.Clean("/"+c.Param("*")), "/")
	if name == "" {
		name = "index.html"
	}
	if st, err := fs.Stat(h.static, name); err != nil || st.IsDir() {
		name = "index.html"
	}
	return echo.StaticFileHandler(name, h.static)(c)
}
