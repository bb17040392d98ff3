package scenario_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"code.bbsnetwork.io/lm/logging"
	"code.bbsnetwork.io/lm/scenario"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.toml")
	require.NoError(t, os.WriteFile(path, []byte(`name = "first"`), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu    sync.Mutex
		names []string
	)
	done := make(chan error, 1)
	go func() {
		done <- scenario.Watch(ctx, logging.NewTestLogger(), path, func(sc *scenario.Scenario, err error) {
			if err != nil {
				return
			}
			mu.Lock()
			names = append(names, sc.Name)
			mu.Unlock()
		})
	}()

	// let the watcher register the file
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`name = "second"`), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(names) > 0 && names[len(names)-1] == "second"
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
