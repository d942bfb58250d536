package api

import (
	"errors"
	"net/http"

	"ViralGen/internal/domain/models"
	"ViralGen/internal/usecase"
	xhttp "ViralGen/pkg/http"
	applogger "ViralGen/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CompanionEchoHandler is the render node the factory hands content to.
type CompanionEchoHandler struct {
	logger    *applogger.Logger
	companion *usecase.Companion
}

func NewCompanionEchoHandler(logger *applogger.Logger, c *usecase.Companion) *CompanionEchoHandler {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &CompanionEchoHandler{logger: logger.Component("companion-api"), companion: c}
}

func (h *CompanionEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Health)
	e.GET("/received", h.Received)
	e.POST("/auto-post", h.AutoPost)
	e.GET("/logs/stream", NewLogStreamHandler(h.companion.Journal(), h.logger).Stream)
}

// Health is what the factory's probe polls; any 2xx counts as online.
func (h *CompanionEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.companion.Health())
}

func (h *CompanionEchoHandler) Received(c echo.Context) error {
	rows := h.companion.Received()
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *CompanionEchoHandler) AutoPost(c echo.Context) error {
	var req models.AutoPostRequest
	if err := c.Bind(&req); err != nil {
		return xhttp.BadRequestResponse(c, xhttp.ValidationErrors(err))
	}
	if err := h.companion.Receive(c.Request().Context(), req); err != nil {
		if errors.Is(err, usecase.ErrEmptyItem) {
			return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_REQUIRED", "item.id", err.Error(), http.StatusBadRequest))
		}
		h.logger.Error("auto-post failed", applogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.AcceptedResponse(c, map[string]string{"id": req.Item.ID})
}
