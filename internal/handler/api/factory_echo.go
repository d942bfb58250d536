package api

import (
	"errors"
	"net/http"

	"ViralGen/internal/domain/models"
	drepo "ViralGen/internal/domain/repository"
	"ViralGen/internal/repository"
	"ViralGen/internal/service/companion"
	"ViralGen/internal/service/ratelimit"
	"ViralGen/internal/usecase"
	xhttp "ViralGen/pkg/http"
	applogger "ViralGen/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const masterKeyHeader = "X-Master-Key"

// FactoryEchoHandler exposes the content factory. Everything except the
// vault gate and asset downloads requires the master key.
type FactoryEchoHandler struct {
	logger  *applogger.Logger
	factory *usecase.ContentFactory
	assets  drepo.AssetStore
	probe   *companion.Probe
	limiter *ratelimit.Limiter
}

// NewFactoryEchoHandler builds the handler. probe and limiter may be nil.
func NewFactoryEchoHandler(logger *applogger.Logger, factory *usecase.ContentFactory, assets drepo.AssetStore, probe *companion.Probe, limiter *ratelimit.Limiter) *FactoryEchoHandler {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &FactoryEchoHandler{
		logger:  logger.Component("factory-api"),
		factory: factory,
		assets:  assets,
		probe:   probe,
		limiter: limiter,
	}
}

func (h *FactoryEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/vault", h.Vault)
	g.POST("/vault/setup", h.SetupVault)
	g.POST("/vault/unlock", h.Unlock)
	g.GET("/assets/:id", h.Asset)

	p := g.Group("", h.requireMasterKey)
	p.GET("/settings", h.GetSettings)
	p.PUT("/settings", h.SaveSettings)
	p.GET("/niches", h.Niches)
	p.PUT("/niche", h.SetNiche)
	p.POST("/autopilot", h.AutoPilot)
	if h.limiter != nil {
		p.POST("/blast", h.Blast, ratelimit.Middleware(h.limiter))
	} else {
		p.POST("/blast", h.Blast)
	}
	p.GET("/contents", h.Contents)
	p.GET("/analytics", h.Analytics)
	p.GET("/status", h.Status)
	p.GET("/logs/stream", NewLogStreamHandler(h.factory.Journal(), h.logger).Stream)
}

// requireMasterKey accepts the key from the header, or from the "key" query
// parameter for websocket clients that cannot set headers.
func (h *FactoryEchoHandler) requireMasterKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Request().Header.Get(masterKeyHeader)
		if key == "" {
			key = c.QueryParam("key")
		}
		if err := h.factory.Authorize(key); err != nil {
			return h.vaultError(c, err)
		}
		return next(c)
	}
}

func (h *FactoryEchoHandler) Vault(c echo.Context) error {
	return xhttp.SuccessResponse(c, models.VaultState{SetupRequired: h.factory.Settings().SetupRequired()})
}

func (h *FactoryEchoHandler) SetupVault(c echo.Context) error {
	req := &models.MasterKeyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.factory.SetupVault(c.Request().Context(), req.MasterKey); err != nil {
		return h.vaultError(c, err)
	}
	h.factory.Journal().System("Vault sealed with new master key.")
	return xhttp.CreatedResponse(c, models.VaultState{SetupRequired: false})
}

func (h *FactoryEchoHandler) Unlock(c echo.Context) error {
	req := &models.MasterKeyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.factory.Authorize(req.MasterKey); err != nil {
		return h.vaultError(c, err)
	}
	return xhttp.SuccessResponse(c, h.factory.Settings().Redacted())
}

func (h *FactoryEchoHandler) Asset(c echo.Context) error {
	data, mime, err := h.assets.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrAssetNotFound) {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("asset %s not found", c.Param("id")))
	}
	if err != nil {
		h.logger.Error("asset read failed", applogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=86400, immutable")
	return c.Blob(http.StatusOK, mime, data)
}

func (h *FactoryEchoHandler) GetSettings(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.factory.Settings().Redacted())
}

func (h *FactoryEchoHandler) SaveSettings(c echo.Context) error {
	var s models.Settings
	if err := c.Bind(&s); err != nil {
		return xhttp.BadRequestResponse(c, xhttp.ValidationErrors(err))
	}
	saved, err := h.factory.SaveSettings(c.Request().Context(), s)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return xhttp.BadRequestResponse(c, xhttp.ValidationErrors(err))
		}
		if errors.Is(err, usecase.ErrWeakMasterKey) {
			return h.vaultError(c, err)
		}
		h.logger.Error("save settings failed", applogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	h.factory.Journal().System("Vault synchronized.")
	return xhttp.SuccessResponse(c, saved.Redacted())
}

func (h *FactoryEchoHandler) Niches(c echo.Context) error {
	return xhttp.ListResponse(c, models.Niches, int64(len(models.Niches)))
}

func (h *FactoryEchoHandler) SetNiche(c echo.Context) error {
	req := &models.NicheRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	n, err := h.factory.SetNiche(req.Niche)
	if err != nil {
		appErr := xhttp.NewAppError("ERR_UNKNOWN_NICHE", "niche", err.Error(), http.StatusBadRequest)
		return xhttp.AppErrorResponse(c, appErr)
	}
	return xhttp.SuccessResponse(c, map[string]models.Niche{"niche": n})
}

func (h *FactoryEchoHandler) AutoPilot(c echo.Context) error {
	req := &models.AutoPilotRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	st, err := h.factory.SetAutoPilot(*req.Enabled)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}
	return xhttp.SuccessResponse(c, st)
}

// Blast runs one cycle and answers with the content it produced.
func (h *FactoryEchoHandler) Blast(c echo.Context) error {
	res, err := h.factory.ManualBlast(c.Request().Context())
	switch {
	case errors.Is(err, usecase.ErrBusy):
		return xhttp.AppErrorResponse(c, xhttp.ConflictError("A cycle is already running."))
	case err != nil:
		appErr := xhttp.NewAppError("ERR_CYCLE_FAILED", "", err.Error(), http.StatusBadGateway)
		return xhttp.AppErrorResponse(c, appErr)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *FactoryEchoHandler) Contents(c echo.Context) error {
	rows := h.factory.Contents()
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *FactoryEchoHandler) Analytics(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.factory.Analytics())
}

func (h *FactoryEchoHandler) Status(c echo.Context) error {
	backend := models.BackendState{Status: string(companion.StatusChecking)}
	if h.probe != nil {
		backend.Status = string(h.probe.Status())
		if t := h.probe.LastChecked(); !t.IsZero() {
			backend.LastChecked = t.UnixMilli()
		}
	}
	return xhttp.SuccessResponse(c, struct {
		usecase.FactoryStatus
		Backend models.BackendState `json:"backend"`
	}{h.factory.Status(), backend})
}

func (h *FactoryEchoHandler) vaultError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrVaultSetupRequired):
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_SETUP_REQUIRED", "masterKey", "Vault setup required.", http.StatusPreconditionRequired))
	case errors.Is(err, usecase.ErrInvalidMasterKey):
		return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("Invalid master key."))
	case errors.Is(err, usecase.ErrVaultConfigured):
		return xhttp.AppErrorResponse(c, xhttp.ConflictError("Vault already configured."))
	case errors.Is(err, usecase.ErrWeakMasterKey):
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_MIN", "masterKey", "masterKey must be at least 6 characters", http.StatusBadRequest))
	}
	h.logger.Error("vault operation failed", applogger.Error(err))
	return xhttp.InternalServerErrorResponse(c)
}
