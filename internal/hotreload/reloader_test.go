package hotreload

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"mockstream/pkg/config"
	"mockstream/pkg/netsim"
)

func writeConfig(t *testing.T, path, condition string) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Simulation.InitialCondition = condition
	require.NoError(t, config.WriteToFile(cfg, path))
}

func TestReloadAppliesConditionChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mockstream.yaml")
	writeConfig(t, path, "normal")

	logger := zaptest.NewLogger(t)
	state, err := netsim.NewState("normal", logger)
	require.NoError(t, err)

	reloader, err := NewConfigReloader(path, state, 10*time.Millisecond, logger)
	require.NoError(t, err)
	defer reloader.Stop()

	writeConfig(t, path, "poor")
	require.NoError(t, reloader.reload(path))

	assert.Equal(t, "poor", state.Current())
}

func TestReloadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mockstream.yaml")
	writeConfig(t, path, "normal")

	logger := zaptest.NewLogger(t)
	state, err := netsim.NewState("poor", logger)
	require.NoError(t, err)

	reloader, err := NewConfigReloader(path, state, 10*time.Millisecond, logger)
	require.NoError(t, err)
	defer reloader.Stop()

	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: -1\n"), 0644))
	require.Error(t, reloader.reload(path))

	assert.Equal(t, "poor", state.Current())
}

func TestWatcherDeliversDebouncedEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0644))

	watcher, err := NewFileWatcher(zaptest.NewLogger(t), 20*time.Millisecond)
	require.NoError(t, err)
	defer watcher.Stop()

	require.NoError(t, watcher.Watch(path))

	events := make(chan string, 10)
	watcher.Start(func(p string) { events <- p })

	require.NoError(t, os.WriteFile(path, []byte("a: 2\n"), 0644))

	select {
	case p := <-events:
		assert.Equal(t, path, p)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for file event")
	}
}

func TestIsConfigFile(t *testing.T) {
	assert.True(t, isConfigFile("mockstream.yaml"))
	assert.True(t, isConfigFile("/etc/mockstream/config.yml"))
	assert.False(t, isConfigFile("config.json.swp"))
	assert.False(t, isConfigFile("notes.txt"))
}
