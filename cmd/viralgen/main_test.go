package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ViralGen/internal/audio"
	"ViralGen/internal/domain/models"
	"ViralGen/internal/scheduler"
	"ViralGen/internal/usecase"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestWAVCommandWrapsBase64PCM(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "speech.b64")
	out := filepath.Join(dir, "speech.wav")
	pcm := make([]byte, 48000)
	require.NoError(t, os.WriteFile(in, []byte(base64.StdEncoding.EncodeToString(pcm)), 0o600))

	stdout, err := run(t, "wav", "--in", in, "--out", out, "--base64")
	require.NoError(t, err)
	require.Contains(t, stdout, "24000")
	require.Contains(t, stdout, "1.00s")

	wav, err := os.ReadFile(out)
	require.NoError(t, err)
	f, n, err := audio.ParseHeader(wav)
	require.NoError(t, err)
	require.Equal(t, audio.GeminiTTSFormat, f)
	require.Equal(t, len(pcm), n)
}

func TestWAVCommandRejectsBadFormat(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "raw.pcm")
	require.NoError(t, os.WriteFile(in, []byte{1, 2, 3, 4}, 0o600))

	_, err := run(t, "wav", "--in", in, "--out", filepath.Join(dir, "x.wav"), "--bits", "12")
	require.ErrorIs(t, err, audio.ErrInvalidFormat)
}

func TestWAVCommandRejectsBadBase64(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.b64")
	require.NoError(t, os.WriteFile(in, []byte("%%%"), 0o600))

	_, err := run(t, "wav", "--in", in, "--out", filepath.Join(dir, "x.wav"), "--base64")
	require.Error(t, err)
}

func TestStatusCommandRendersSignals(t *testing.T) {
	st := usecase.SignalStatus{
		Config: models.SignalConfig{GeminiKey: "******abcd"},
		Signals: []models.TradingSignal{{
			ID: "K3Z9Q", Pair: "SOLUSDT", Action: models.ActionShort,
			Entry: 150, TP: 140, SL: 155, Timestamp: time.Now().UnixMilli(),
		}},
		Logs:      []models.LogEntry{{ID: 1, Time: "12:00:00", Type: models.LogResponse, Content: "Alpha Pulse: SHORT SOLUSDT"}},
		Scheduler: scheduler.State{Armed: true, Countdown: 125, IntervalMinutes: 15},
	}
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(st)
	}))
	t.Cleanup(srv.Close)

	stdout, err := run(t, "status", "--url", srv.URL+"/")
	require.NoError(t, err)
	require.Equal(t, "/api/status", gotPath)
	require.Contains(t, stdout, "next scan in 2:05")
	require.Contains(t, stdout, "K3Z9Q")
	require.Contains(t, stdout, "SOLUSDT")
	require.Contains(t, stdout, "Alpha Pulse: SHORT SOLUSDT")
}

func TestStatusCommandReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	_, err := run(t, "status", "--url", srv.URL)
	require.ErrorContains(t, err, "404")
}
