package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "reports", c.OutputDir)
	assert.Equal(t, "png", c.ImageFormat)
	assert.Equal(t, 1000, c.ChartWidth)
	assert.Equal(t, 600, c.ChartHeight)
	assert.Equal(t, 1, c.RenderWorkers)
	assert.Equal(t, 1, c.SheetIndex)
	assert.Equal(t, "info", c.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: from-file\nchart_width: 800\n"), 0o644))
	t.Setenv("EDAREPORT_OUTPUT_DIR", "from-env")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.OutputDir)
	assert.Equal(t, 800, c.ChartWidth)
}

func TestSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, err := Load("")
	require.NoError(t, err)
	c.ImageFormat = "svg"
	c.RenderWorkers = 4
	require.NoError(t, Save(c, ""))
	assert.FileExists(t, filepath.Join(home, ".edareport", "config.yaml"))

	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "svg", got.ImageFormat)
	assert.Equal(t, 4, got.RenderWorkers)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: [unclosed\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
