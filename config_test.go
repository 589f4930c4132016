package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netsketchrc")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfigFile(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.True(t, cfg.Confirmations)
	assert.True(t, cfg.PDFCompress)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.SaveDirectory)
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
save_directory = "`+filepath.ToSlash(dir)+`"
icon_directory = "~/icons"
confirmations = false
log_level = "debug"
pdf_compress = false
canvas_width = 1024
canvas_height = 768
`)
	cfg, err := loadConfigFile(path)
	require.NoError(t, err)

	home, err := homedir.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "icons"), cfg.IconDirectory)
	assert.False(t, cfg.Confirmations)
	assert.False(t, cfg.PDFCompress)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 1024, cfg.CanvasWidth)
	assert.Equal(t, 768, cfg.CanvasHeight)
	assert.Equal(t, filepath.Join(dir, "net.png"), cfg.SavePath("net.png"))
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, "confirmations = maybe\n[[[")
	cfg, err := loadConfigFile(path)
	assert.Error(t, err)
	assert.True(t, cfg.Confirmations)
}

func TestConfigNegativeCanvasIgnored(t *testing.T) {
	cfg, err := loadConfigFile(writeConfig(t, "canvas_width = -5\ncanvas_height = 300\n"))
	require.NoError(t, err)
	assert.Zero(t, cfg.CanvasWidth)
	assert.Zero(t, cfg.CanvasHeight)
}

func TestSavePathWithoutDirectory(t *testing.T) {
	assert.Equal(t, "diagram", defaultConfig().SavePath("diagram"))
}
