package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ViralGen/internal/domain/models"
	"ViralGen/internal/repository"
	"ViralGen/internal/usecase"
	"ViralGen/pkg/cache"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testKey = "secret1"

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func newFactoryServer(t *testing.T, apiKey bool) (*echo.Echo, *usecase.ContentFactory) {
	t.Helper()
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })

	defaults := models.DefaultSettings("", 15)
	assets := repository.NewCacheAssetStore(mc, time.Hour)
	store := repository.NewCacheSettingsStore(mc, "vault", defaults)
	f := usecase.NewContentFactory(usecase.ContentFactoryConfig{
		Niche:            models.NicheTech,
		LogCap:           5,
		CallTimeout:      time.Second,
		APIKeyConfigured: apiKey,
		AssetURLPrefix:   "/api/assets/",
		Defaults:         defaults,
	}, stubGenerator{}, assets, store, flatEstimator{}, nil, nil, nil, nil, nil)
	require.NoError(t, f.Start(context.Background()))

	e := echo.New()
	NewFactoryEchoHandler(nil, f, assets, nil, nil).RegisterRoutes(e)
	return e, f
}

func unlockedFactory(t *testing.T, apiKey bool) (*echo.Echo, *usecase.ContentFactory) {
	t.Helper()
	e, f := newFactoryServer(t, apiKey)
	rec := do(e, http.MethodPost, "/api/vault/setup", `{"masterKey":"`+testKey+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return e, f
}

func TestFactoryVaultGate(t *testing.T) {
	t.Parallel()
	e, _ := newFactoryServer(t, true)

	rec := do(e, http.MethodGet, "/api/vault", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"setupRequired":true}`, string(decode(t, rec).Data))

	rec = do(e, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusPreconditionRequired, rec.Code)

	rec = do(e, http.MethodPost, "/api/vault/setup", `{"masterKey":"abc"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/api/vault/setup", `{"masterKey":"`+testKey+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(e, http.MethodPost, "/api/vault/setup", `{"masterKey":"another1"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(e, http.MethodPost, "/api/vault/unlock", `{"masterKey":"wrong-key"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/api/vault/unlock", `{"masterKey":"`+testKey+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/api/settings", "", "X-Master-Key", "wrong-key")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodGet, "/api/settings", "", "X-Master-Key", testKey)
	require.Equal(t, http.StatusOK, rec.Code)
	var s models.Settings
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &s))
	require.Empty(t, s.MasterKey)
	require.Equal(t, 15, s.Frequency)
}

func TestFactorySaveSettingsValidatesFrequency(t *testing.T) {
	t.Parallel()
	e, f := unlockedFactory(t, true)

	rec := do(e, http.MethodPut, "/api/settings", `{"frequency":5}`, "X-Master-Key", testKey)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "ERR_GTE")

	rec = do(e, http.MethodPut, "/api/settings", `{"frequency":25}`, "X-Master-Key", testKey)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "ERR_STEP")
	require.Contains(t, rec.Body.String(), "frequency must be a multiple of 10")

	rec = do(e, http.MethodPut, "/api/settings", `{"frequency":30,"backendUrl":"https://render.example"}`, "X-Master-Key", testKey)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 30, f.Scheduler().State().IntervalMinutes)
	require.Equal(t, testKey, f.Settings().MasterKey)
	require.Equal(t, "https://render.example", f.Settings().BackendURL)
}

func TestFactorySaveSettingsRejectsWeakMasterKey(t *testing.T) {
	t.Parallel()
	e, f := unlockedFactory(t, true)

	rec := do(e, http.MethodPut, "/api/settings", `{"frequency":20,"masterKey":"abc"}`, "X-Master-Key", testKey)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "ERR_MIN")
	require.Equal(t, testKey, f.Settings().MasterKey)

	rec = do(e, http.MethodGet, "/api/settings", "", "X-Master-Key", testKey)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestFactoryNiche(t *testing.T) {
	t.Parallel()
	e, f := unlockedFactory(t, true)

	rec := do(e, http.MethodPut, "/api/niche", `{"niche":"Cooking"}`, "X-Master-Key", testKey)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "ERR_UNKNOWN_NICHE")

	rec = do(e, http.MethodPut, "/api/niche", `{"niche":"High-End Luxury"}`, "X-Master-Key", testKey)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, models.NicheLuxury, f.Niche())

	rec = do(e, http.MethodGet, "/api/niches", "", "X-Master-Key", testKey)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total":6`)
}

func TestFactoryAutoPilotToggle(t *testing.T) {
	t.Parallel()
	e, f := unlockedFactory(t, true)

	rec := do(e, http.MethodPost, "/api/autopilot", `{}`, "X-Master-Key", testKey)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/api/autopilot", `{"enabled":true}`, "X-Master-Key", testKey)
	require.Equal(t, http.StatusOK, rec.Code)
	st := f.Scheduler().State()
	require.True(t, st.Armed)
	require.Equal(t, 15*60, st.Countdown)

	rec = do(e, http.MethodPost, "/api/autopilot", `{"enabled":false}`, "X-Master-Key", testKey)
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, f.Scheduler().State().Armed)
}

func TestFactoryBlastServesAssets(t *testing.T) {
	t.Parallel()
	e, f := unlockedFactory(t, true)

	rec := do(e, http.MethodPost, "/api/blast", "", "X-Master-Key", testKey)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res models.GenerationResult
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &res))
	require.Equal(t, models.NicheTech, res.Niche)
	require.True(t, strings.HasPrefix(res.VideoURL, "/api/assets/"))
	require.True(t, strings.HasPrefix(res.AudioURL, "/api/assets/"))
	require.Equal(t, f.Contents()[0].ID, res.ID)

	rec = do(e, http.MethodGet, res.VideoURL, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	require.Equal(t, "png", rec.Body.String())

	rec = do(e, http.MethodGet, res.AudioURL, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "RIFF", rec.Body.String()[:4])

	rec = do(e, http.MethodGet, "/api/assets/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodGet, "/api/contents", "", "X-Master-Key", testKey)
	require.Contains(t, rec.Body.String(), `"total":1`)

	rec = do(e, http.MethodGet, "/api/analytics", "", "X-Master-Key", testKey)
	var sum models.AnalyticsSummary
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &sum))
	require.EqualValues(t, 1000, sum.TotalProjectedReach)
	require.Equal(t, 2, sum.ActiveChannels)
}

func TestFactoryBlastWithoutKeyFails(t *testing.T) {
	t.Parallel()
	e, f := unlockedFactory(t, false)

	rec := do(e, http.MethodPost, "/api/blast", "", "X-Master-Key", testKey)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "ERR_CYCLE_FAILED")
	require.Empty(t, f.Contents())
}

func TestFactoryStatusReportsBackend(t *testing.T) {
	t.Parallel()
	e, _ := unlockedFactory(t, true)

	rec := do(e, http.MethodGet, "/api/status", "", "X-Master-Key", testKey)
	require.Equal(t, http.StatusOK, rec.Code)
	var st struct {
		Niche     models.Niche        `json:"niche"`
		Countdown string              `json:"countdown"`
		Backend   models.BackendState `json:"backend"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &st))
	require.Equal(t, models.NicheTech, st.Niche)
	require.Equal(t, "0:00", st.Countdown)
	require.Equal(t, "CHECKING", st.Backend.Status)
}

func TestFactoryLogStream(t *testing.T) {
	t.Parallel()
	e, f := unlockedFactory(t, true)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/logs/stream?key=" + testKey
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var entry models.LogEntry
	require.NoError(t, conn.ReadJSON(&entry))
	require.Equal(t, "[SYSTEM] Factory Node Online", entry.Content)
	require.NoError(t, conn.ReadJSON(&entry))
	require.Equal(t, "Vault sealed with new master key.", entry.Content)

	f.Journal().System("live line")
	require.NoError(t, conn.ReadJSON(&entry))
	require.Equal(t, "live line", entry.Content)
	require.Equal(t, models.LogSystem, entry.Type)
}

func TestFactoryLogStreamRequiresKey(t *testing.T) {
	t.Parallel()
	e, _ := unlockedFactory(t, true)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/logs/stream"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
