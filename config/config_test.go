package config_test

import (
	"context"
	"os"
	"testing"
	"time"

	"code.bbsnetwork.io/lm/config"
	"code.bbsnetwork.io/lm/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRead(t *testing.T) {
	home := t.TempDir()
	cfg := config.NewDefaultConfig()
	cfg.Mining.Level.Level = logging.DebugLevel
	cfg.Metrics.Port = 9999

	require.NoError(t, config.Write(home, cfg, false))
	assert.ErrorIs(t, config.Write(home, cfg, false), config.ErrConfigExists)
	require.NoError(t, config.Write(home, cfg, true))

	got, err := config.Read(home)
	require.NoError(t, err)
	assert.Equal(t, logging.DebugLevel, got.Mining.Level.Get())
	assert.Equal(t, 9999, got.Metrics.Port)
	assert.Equal(t, cfg.Time.Genesis, got.Time.Genesis)
}

func TestReadPartialFileKeepsDefaults(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(config.Path(home), []byte("[Mining]\nLevel = \"Error\"\n"), 0o600))

	got, err := config.Read(home)
	require.NoError(t, err)
	assert.Equal(t, logging.ErrorLevel, got.Mining.Level.Get())
	assert.Equal(t, config.NewDefaultConfig().Tokens.Symbol, got.Tokens.Symbol)
}

func TestReadErrors(t *testing.T) {
	_, err := config.Read(t.TempDir())
	assert.Error(t, err)

	home := t.TempDir()
	require.NoError(t, os.WriteFile(config.Path(home), []byte("[Mining\n"), 0o600))
	_, err = config.Read(home)
	assert.Error(t, err)
}

func TestWatcher(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	home := t.TempDir()
	require.NoError(t, config.Write(home, config.NewDefaultConfig(), false))

	w, err := config.NewFromFile(ctx, logging.NewTestLogger(), home)
	require.NoError(t, err)

	var updated []config.Config
	w.OnConfigUpdate(func(cfg config.Config) {
		updated = append(updated, cfg)
	})

	// nothing changed yet
	w.OnTimeUpdate(ctx, time.Now())
	assert.Empty(t, updated)

	cfg := config.NewDefaultConfig()
	cfg.Mining.Level.Level = logging.DebugLevel
	require.NoError(t, config.Write(home, cfg, true))

	assert.Eventually(t, func() bool {
		cfg := w.Get()
		return cfg.Mining.Level.Get() == logging.DebugLevel
	}, 5*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		w.OnTimeUpdate(ctx, time.Now())
		return len(updated) > 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, logging.DebugLevel, updated[0].Mining.Level.Get())
}
