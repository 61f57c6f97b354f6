package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(16<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "/tmp/logs/app.log", cfg.Log.File)
	assert.True(t, cfg.Log.Console)
	assert.Equal(t, "grayscale", cfg.Transform.Default)
	assert.Len(t, cfg.Transform.Enabled, 6)
	assert.Equal(t, "png", cfg.Image.OutputFormat)
	assert.Equal(t, 90, cfg.Image.JPEGQuality)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[server]
port = "9090"
write_timeout = "1m"

[log]
level = "debug"
file = "/var/log/imagesvc/app.log"
console = false

[transform]
default = "rotate"
enabled = ["rotate", "resize"]
max_width = 100

[image]
output_format = "jpeg"
jpeg_quality = 75
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.Console)
	assert.Equal(t, []string{"rotate", "resize"}, cfg.Transform.Enabled)
	assert.Equal(t, 100, cfg.Transform.MaxWidth)
	assert.Equal(t, 8192, cfg.Transform.MaxHeight)
	assert.Equal(t, "jpeg", cfg.Image.OutputFormat)
	assert.Equal(t, 75, cfg.Image.JPEGQuality)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("IMAGESVC_SERVER_PORT", "7000")
	t.Setenv("IMAGESVC_LOG_FILE", "/tmp/other.log")
	t.Setenv("IMAGESVC_TRANSFORM_DEFAULT", "resize")
	t.Setenv("IMAGESVC_TRANSFORM_ENABLED", "resize,blur")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "/tmp/other.log", cfg.Log.File)
	assert.Equal(t, "resize", cfg.Transform.Default)
	assert.Equal(t, []string{"resize", "blur"}, cfg.Transform.Enabled)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("IMAGESVC_IMAGE_JPEG_QUALITY=42\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("IMAGESVC_IMAGE_JPEG_QUALITY") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Image.JPEGQuality)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "default not enabled",
			content: "[transform]\ndefault = \"blur\"\nenabled = [\"grayscale\"]\n",
		},
		{
			name:    "unknown output format",
			content: "[image]\noutput_format = \"webp\"\n",
		},
		{
			name:    "jpeg quality out of range",
			content: "[image]\njpeg_quality = 0\n",
		},
		{
			name:    "invalid server mode",
			content: "[server]\nmode = \"production\"\n",
		},
		{
			name:    "non numeric port",
			content: "[server]\nport = \"http\"\n",
		},
		{
			name:    "malformed toml",
			content: "[server\nport = 1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
