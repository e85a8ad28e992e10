package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := FromEnv()
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "./web", cfg.AssetsDir)
		assert.Equal(t, []string{"*"}, cfg.FrameAncestors)
		assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, 8*time.Hour, cfg.Login.MaxTimeToLive)
		assert.Empty(t, cfg.Login.DerivationOrigin)
		assert.False(t, cfg.Tracing.Active())
	})

	t.Run("tracing", func(t *testing.T) {
		t.Setenv("RELAY_OTEL_ENDPOINT", "http://collector:4318")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.True(t, cfg.Tracing.Active())

		t.Setenv("RELAY_OTEL_ENABLED", "false")
		cfg, err = FromEnv()
		require.NoError(t, err)
		assert.False(t, cfg.Tracing.Active())
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("RELAY_ADDR", ":9090")
		t.Setenv("RELAY_FRAME_ANCESTORS", "https://app.example https://other.example")
		t.Setenv("RELAY_MAX_TIME_TO_LIVE", "30m")
		t.Setenv("RELAY_DERIVATION_ORIGIN", "https://app.example")
		t.Setenv("RELAY_LOG_FORMAT", "text")

		cfg, err := FromEnv()
		require.NoError(t, err)

		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, []string{"https://app.example", "https://other.example"}, cfg.FrameAncestors)
		assert.Equal(t, 30*time.Minute, cfg.Login.MaxTimeToLive)
		assert.Equal(t, "https://app.example", cfg.Login.DerivationOrigin)
		assert.Equal(t, "frame-ancestors https://app.example https://other.example", cfg.FrameAncestorsDirective())
	})

	t.Run("malformed duration", func(t *testing.T) {
		t.Setenv("RELAY_MAX_TIME_TO_LIVE", "forever")

		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse env:")
	})

	t.Run("non positive time to live", func(t *testing.T) {
		t.Setenv("RELAY_MAX_TIME_TO_LIVE", "0s")

		_, err := FromEnv()
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("unknown log format", func(t *testing.T) {
		t.Setenv("RELAY_LOG_FORMAT", "xml")

		_, err := FromEnv()
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
	})

	t.Run("file values do not override the environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "relay.env")
		require.NoError(t, os.WriteFile(path, []byte("RELAY_ADDR=:7070\nRELAY_ASSETS_DIR=/srv/relay\n"), 0o600))
		t.Setenv("RELAY_ADDR", ":6060")
		t.Setenv("RELAY_ASSETS_DIR", "")
		require.NoError(t, os.Unsetenv("RELAY_ASSETS_DIR"))

		require.NoError(t, LoadDotEnv(path))
		cfg, err := FromEnv()
		require.NoError(t, err)

		assert.Equal(t, ":6060", cfg.Addr)
		assert.Equal(t, "/srv/relay", cfg.AssetsDir)
	})
}

func TestFrameAncestorsDirective(t *testing.T) {
	assert.Equal(t, "frame-ancestors *", Server{}.FrameAncestorsDirective())
	assert.Equal(t, "frame-ancestors *", Server{FrameAncestors: []string{" ", ""}}.FrameAncestorsDirective())
	assert.Equal(t, "frame-ancestors 'self' https://app.example",
		Server{FrameAncestors: []string{"'self'", " https://app.example", "'self'"}}.FrameAncestorsDirective())
}

func TestFromEnvCollapsesRepeatedSeparators(t *testing.T) {
	t.Setenv("RELAY_FRAME_ANCESTORS", "https://app.example  https://app.example")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example"}, cfg.FrameAncestors)
}
