package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"ViralGen/internal/domain/models"
	"ViralGen/pkg/cache"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func TestSettingsStoreDefaultsThenPersists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })

	defaults := models.DefaultSettings("https://node.example", 15)
	store := NewCacheSettingsStore(mc, "viralgen_vault_secure_v13", defaults)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, defaults, got)
	require.True(t, got.SetupRequired())

	got.MasterKey = "hunter22"
	got.YouTube = models.Credentials{Token: "yt", ClientID: "cid", ClientSecret: "sec"}
	require.NoError(t, store.Save(ctx, got))

	again, err := NewCacheSettingsStore(mc, "viralgen_vault_secure_v13", defaults).Load(ctx)
	require.NoError(t, err)
	require.Equal(t, got, again)
}

func TestAssetStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })
	store := NewCacheAssetStore(mc, time.Hour)

	id, err := store.Put(ctx, []byte{0x89, 'P', 'N', 'G'}, "image/png")
	require.NoError(t, err)

	data, mime, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
	require.Equal(t, "image/png", mime)

	_, _, err = store.Get(ctx, "not-a-uuid")
	require.ErrorIs(t, err, ErrAssetNotFound)
	_, _, err = store.Get(ctx, "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, ErrAssetNotFound)
}

type sentMessage struct {
	topic   string
	key     string
	value   interface{}
	headers []kafka.Header
}

type fakeWriter struct {
	sent   []sentMessage
	closed bool
}

func (w *fakeWriter) Publish(_ context.Context, topic string, key []byte, value interface{}, headers ...kafka.Header) error {
	w.sent = append(w.sent, sentMessage{topic, string(key), value, headers})
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherRoutesByKind(t *testing.T) {
	t.Parallel()
	w := &fakeWriter{}
	p := NewKafkaPublisher(w, Topics{Signals: "sig", Content: "con", AutoPost: "ap"}, "signals")
	ctx := context.Background()

	require.NoError(t, p.PublishSignal(ctx, models.TradingSignal{ID: "AB12C"}))
	require.NoError(t, p.PublishContent(ctx, models.GenerationResult{ID: "r1"}))
	require.NoError(t, p.PublishAutoPost(ctx, models.GenerationResult{ID: "r2"}))
	require.NoError(t, p.Close())

	require.Len(t, w.sent, 3)
	require.Equal(t, "sig", w.sent[0].topic)
	require.Equal(t, "AB12C", w.sent[0].key)
	require.Equal(t, "con", w.sent[1].topic)
	require.Equal(t, "ap", w.sent[2].topic)
	require.Equal(t, "kind", w.sent[2].headers[0].Key)
	require.Equal(t, "autopost", string(w.sent[2].headers[0].Value))
	require.True(t, w.closed)
}

func TestArchiveArgs(t *testing.T) {
	t.Parallel()
	ts := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)

	sig := signalArgs(models.TradingSignal{ID: "AB12C", Action: models.ActionLong, Pair: "BTCUSDT", Entry: 1, TP: 2, SL: 0.5, Timestamp: ts.UnixMilli()})
	require.Len(t, sig, 9)
	require.Equal(t, ts, sig[1])
	require.Equal(t, "LONG", sig[3])

	args, err := contentArgs(models.GenerationResult{
		ID:        "r1",
		Niche:     models.NicheLuxury,
		Timestamp: ts.UnixMilli(),
		AudioURL:  "/api/assets/x",
		Platforms: []models.PlatformStatus{{Platform: "TikTok", Linked: true}},
	})
	require.NoError(t, err)
	require.Len(t, args, 12)
	require.Equal(t, []string{}, args[6])
	require.Equal(t, uint8(1), args[7])
	require.Equal(t, `[{"platform":"TikTok","linked":true,"uploaded":false}]`, args[11])
}

func TestArchiveSchemaIsIdempotent(t *testing.T) {
	t.Parallel()
	for _, stmt := range ArchiveSchema {
		require.True(t, strings.HasPrefix(stmt, "CREATE TABLE IF NOT EXISTS"))
	}
}
