package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"code.bbsnetwork.io/lm/config"
	"code.bbsnetwork.io/lm/logging"
	"code.bbsnetwork.io/lm/scenario"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesConfigAndScenarios(t *testing.T) {
	home := t.TempDir()
	cmd := &InitCmd{HomeFlag: HomeFlag{Home: home}}
	require.NoError(t, cmd.Execute(nil))

	_, err := config.Read(home)
	require.NoError(t, err)

	run := &RunCmd{HomeFlag: HomeFlag{Home: home}}
	files, err := run.scenarioFiles(nil)
	require.NoError(t, err)
	assert.Len(t, files, len(scenario.ExampleNames()))

	// a second init refuses to replace the config
	assert.Error(t, cmd.Execute(nil))
	cmd.Force = true
	assert.NoError(t, cmd.Execute(nil))
}

func TestRunConfigDefaultsWithoutHome(t *testing.T) {
	run := &RunCmd{HomeFlag: HomeFlag{Home: t.TempDir()}}
	cfg, hasConfig, err := run.loadConfig()
	require.NoError(t, err)
	assert.False(t, hasConfig)
	assert.Equal(t, config.NewDefaultConfig(), cfg)

	files, err := run.scenarioFiles([]string{"a.toml"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.toml"}, files)
}

func TestReporter(t *testing.T) {
	examples, err := scenario.Examples()
	require.NoError(t, err)
	runner := scenario.NewRunner(logging.NewTestLogger(), config.NewDefaultConfig())

	var buf bytes.Buffer
	rep := &reporter{w: &buf, verbose: true}
	report, err := runner.Run(context.Background(), examples["minimum_lock.toml"])
	require.NoError(t, err)
	rep.Dump("minimum_lock.toml", report)
	assert.False(t, rep.HasError())
	assert.Contains(t, buf.String(), "minimum_lock.toml: OK")
	assert.Contains(t, buf.String(), "paid 1")

	rep.Err("broken.toml", os.ErrNotExist)
	assert.True(t, rep.HasError())
	assert.Contains(t, buf.String(), "broken.toml: NOT OK")
}

func TestWatchConfigReloadsRunningDeployment(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, config.Write(home, config.NewDefaultConfig(), false))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner := scenario.NewRunner(logging.NewTestLogger(), config.NewDefaultConfig())
	require.NoError(t, watchConfig(ctx, logging.NewTestLogger(), home, runner))

	_, err := os.Stat(filepath.Join(home, "config.toml"))
	require.NoError(t, err)
}
