package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  port: 9090
providers:
  main:
    type: anthropic
    model: claude-sonnet
    api_key: "sk-test"
agents:
  assistant:
    name: Assistant
    provider: main
    tools: [read_file]
`

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadDecodesNestedSections(t *testing.T) {
	path := writeTempConfig(t, sampleYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	require.Contains(t, cfg.Providers, "main")
	assert.Equal(t, "anthropic", cfg.Providers["main"].Type)
	require.Contains(t, cfg.Agents, "assistant")
	assert.Equal(t, []string{"read_file"}, cfg.Agents["assistant"].Tools)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnvMissingFileIsNotError(t *testing.T) {
	assert.NoError(t, LoadDotEnv(t.TempDir()))
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := writeTempConfig(t, sampleYAML)
	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, 9090, w.Current().Server.Port)

	updated := `
server:
  port: 7070
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))

	require.Eventually(t, func() bool {
		return w.Current().Server.Port == 7070
	}, 2*time.Second, 10*time.Millisecond)
}
