package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/termboard/internal/replay"
)

// isolate points config and state lookups at temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLayoutYAML(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "layout", "--profile", "springboard", "--apps", "5", "-o", "yaml")
	require.NoError(t, err)

	var report layoutReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Equal(t, "springboard", report.Profile)
	assert.Equal(t, 90.0, report.Sizes.ItemWidth)
	assert.Equal(t, 100.0, report.Sizes.ItemHeight)
	assert.Equal(t, 4, report.Sizes.PerLine)
	require.Len(t, report.Slots, 24)

	assert.Equal(t, [4]float64{0, 0, 90, 100}, report.Slots[0].Cell)
	require.Len(t, report.Slots[2].Icon, 4)
	assert.InDelta(t, 216.667, report.Slots[2].Icon[0], 0.001)
	assert.Empty(t, report.Slots[5].Icon)
}

func TestLayoutTable(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "layout", "--profile", "springboard", "--apps", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "per_line=4")
	assert.Contains(t, out, "216.67")
	assert.Contains(t, out, "icon x1")
}

func TestLayoutRejects(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "layout", "-o", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")

	_, _, err = execute(t, "layout", "--width", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")

	_, _, err = execute(t, "layout", "--profile", "tablet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tablet")
}

func TestConfigValidate(t *testing.T) {
	dir := isolate(t)

	out, _, err := execute(t, "config", "validate")
	require.NoError(t, err)
	assert.Equal(t, "config: ok\n", out)

	bad := writeFile(t, dir, "bad.yaml", "timing:\n  long_press: soon\n")
	_, _, err = execute(t, "--config", bad, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestConfigExplain(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "config.yaml", "timing:\n  long_press: 450ms\n")

	out, _, err := execute(t, "-c", path, "config", "explain", "timing.long_press")
	require.NoError(t, err)
	assert.Contains(t, out, "path: timing.long_press")
	assert.Contains(t, out, "source: file:")
	assert.Contains(t, out, ":2:")
	assert.Contains(t, out, "450ms")

	out, _, err = execute(t, "-c", path, "config", "explain", "spring.damping")
	require.NoError(t, err)
	assert.Contains(t, out, "source: default:defaults")

	_, _, err = execute(t, "-c", path, "config", "explain", "timing.nope")
	require.Error(t, err)
}

func TestConfigPrintDefaults(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "config", "print", "--defaults")
	require.NoError(t, err)
	assert.Contains(t, out, "profile: terminal")
	assert.Contains(t, out, "long_press: 300ms")
}

func TestReplayScript(t *testing.T) {
	isolate(t)

	script := filepath.Join("..", "..", "internal", "replay", "testdata", "drag.yaml")
	out, _, err := execute(t, "replay", script)
	require.NoError(t, err)
	var report replay.Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Equal(t, []string{"B", "C", "A", "D", "E"}, report.Order)
	assert.True(t, report.Editing)
	assert.Len(t, report.Callbacks, 2)
}

func TestReplayFailedExpectation(t *testing.T) {
	dir := isolate(t)
	script := writeFile(t, dir, "tap.yaml", `width: 400
height: 600
profile: springboard
apps: [A, B]
events:
  - {at: 0s, kind: grant, x: 55, y: 65}
  - {at: 50ms, kind: release}
expect:
  editing: true
`)

	_, _, err := execute(t, "replay", script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "editing: got false, want true")
}
