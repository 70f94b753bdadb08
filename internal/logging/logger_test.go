package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/termboard/internal/config"
)

func TestNewLogger_CachesPerComponent(t *testing.T) {
	a := NewLogger("engine")
	b := NewLogger("engine")
	c := NewLogger("shell")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, "engine", a.Data["component"])
}

func TestConfigure_JSONToWriter(t *testing.T) {
	t.Setenv(LevelEnv, "")
	var buf bytes.Buffer
	require.NoError(t, Configure(Options{Level: "debug", Format: "json", Output: &buf}))
	t.Cleanup(func() { _ = Close() })

	NewLogger("engine").WithField("idx", 3).Debug("grant")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "grant", line["msg"])
	assert.Equal(t, "engine", line["component"])
	assert.EqualValues(t, 3, line["idx"])
}

func TestConfigure_EnvOverridesLevel(t *testing.T) {
	t.Setenv(LevelEnv, "error")
	var buf bytes.Buffer
	require.NoError(t, Configure(Options{Level: "debug", Output: &buf}))
	t.Cleanup(func() { _ = Close() })

	NewLogger("tui").Info("hidden")
	assert.Empty(t, buf.String())

	NewLogger("tui").Error("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigure_File(t *testing.T) {
	t.Setenv(LevelEnv, "")
	path := filepath.Join(t.TempDir(), "nested", "termboard.log")
	require.NoError(t, Configure(Options{Level: "info", File: path}))

	NewLogger("config").Info("reloaded")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "reloaded")
	assert.Contains(t, string(data), "component=config")
}

func TestConfigure_Rejects(t *testing.T) {
	t.Setenv(LevelEnv, "")
	assert.Error(t, Configure(Options{Level: "loud"}))
	assert.Error(t, Configure(Options{Format: "xml"}))
}

func TestOptionsFromConfig_DefaultsToStatePath(t *testing.T) {
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)

	opts := OptionsFromConfig(config.DefaultConfig())
	assert.Equal(t, filepath.Join(state, "termboard", "termboard.log"), opts.File)
	assert.Equal(t, "info", opts.Level)
}
