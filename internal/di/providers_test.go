package di

import (
	"testing"

	"ViralGen/internal/domain/models"
	"ViralGen/pkg/cache"
	"ViralGen/pkg/config"
	"ViralGen/pkg/logger"
	"ViralGen/pkg/queue"

	"github.com/stretchr/testify/require"
)

func TestProvideCacheFallsBackToMemory(t *testing.T) {
	t.Parallel()
	c := ProvideCache(nil)
	t.Cleanup(func() { _ = c.Close() })

	_, ok := c.(*cache.MemoryCache)
	require.True(t, ok)
}

func TestProvideQueueWithoutRedisIsLocal(t *testing.T) {
	t.Parallel()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Queue.Backend = config.QueueRedis

	q := ProvideQueue(cfg, logger.Nop(), nil)
	_, ok := q.(*queue.LocalQueue)
	require.True(t, ok)
}

func TestOptionalSinksAreNil(t *testing.T) {
	t.Parallel()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Sink.Type = config.SinkNone

	require.Nil(t, ProvidePublisher(cfg, nil))
	archive, err := ProvideArchive(cfg, logger.Nop())
	require.NoError(t, err)
	require.Nil(t, archive)
}

func TestParseNicheFallback(t *testing.T) {
	t.Parallel()
	require.Equal(t, models.NicheTech, parseNiche(string(models.NicheTech)))
	require.Equal(t, models.NicheMotivation, parseNiche("knitting"))
}
