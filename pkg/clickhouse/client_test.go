package clickhouse

import (
	"testing"

	ch "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/stretchr/testify/require"
)

func TestBuildOptions(t *testing.T) {
	t.Parallel()
	cfg := &ClientConfig{Host: "ch", Port: 8123, Database: "viralgen", User: "u", Password: "p", UseHTTP: true, AsyncInsert: true}

	opts := buildOptions(cfg)

	require.Equal(t, []string{"ch:8123"}, opts.Addr)
	require.Equal(t, ch.HTTP, opts.Protocol)
	require.Equal(t, "viralgen", opts.Auth.Database)
	require.Equal(t, 1, opts.Settings["async_insert"])
}

func TestNewClientRequiresHost(t *testing.T) {
	t.Parallel()
	_, err := NewClient()
	require.Error(t, err)
}
