package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/idcardapp/internal/card"
	imagepkg "github.com/youruser/idcardapp/internal/image"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "idcard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, card.PolicySkip, cfg.LayerPolicy())
	assert.Equal(t, []string{"standard"}, cfg.TemplateNames())

	d, err := cfg.GetFetchTimeout()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)

	l, ok := cfg.Template("")
	require.True(t, ok)
	assert.Equal(t, 600, l.Width)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Render, cfg.Render)
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("IDCARD_ADDR", "")
	path := writeConfig(t, `
server:
  addr: "127.0.0.1:9000"
render:
  default_template: badge
  on_layer_error: abort
  fetch_timeout: 3s
  concurrency: 8
templates:
  badge:
    width: 300
    height: 450
    background_color: "#ffffff"
    profile:
      source: "{{.photo_url}}"
      x: 30
      y: 30
      width: 240
      height: 240
    qr:
      text: "{{.id_number}}"
      x: 110
      y: 350
      size: 80
    texts:
      - content: "{{.name}}"
        x: 150
        y: 300
        font_size: 24
        align: center
    order: [background, profile, qr, text]
    format: jpeg
    quality: 0.9
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, card.PolicyAbort, cfg.LayerPolicy())
	assert.Equal(t, 8, cfg.Render.Concurrency)
	assert.Equal(t, []string{"badge", "standard"}, cfg.TemplateNames(), "file templates merge with the built-ins")

	l, ok := cfg.Template("")
	require.True(t, ok)
	assert.Equal(t, 240, l.Profile.Width)
	assert.Equal(t, "{{.photo_url}}", l.Profile.Source)
	assert.Equal(t, 80, l.QR.Size)
	assert.Equal(t, "center", l.Texts[0].Align)
	assert.Equal(t, 0.9, l.Quality)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "server: [unclosed"},
		{"bad duration", "render:\n  fetch_timeout: soon\n"},
		{"bad policy", "render:\n  on_layer_error: retry\n"},
		{"bad template", "templates:\n  broken:\n    width: 0\n    height: 10\n"},
		{"unknown default", "render:\n  default_template: nope\n"},
		{"negative source limit", "render:\n  max_source_pixels: -1\n"},
		{"oversized template", "templates:\n  huge:\n    width: 200000\n    height: 200000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Run("PORT sets the listen port", func(t *testing.T) {
		t.Setenv("PORT", "9999")
		t.Setenv("IDCARD_ADDR", "")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, ":9999", cfg.Server.Addr)
	})

	t.Run("IDCARD_ADDR wins over PORT", func(t *testing.T) {
		t.Setenv("PORT", "9999")
		t.Setenv("IDCARD_ADDR", "0.0.0.0:7000")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "0.0.0.0:7000", cfg.Server.Addr)
	})

	t.Run("render and logging overrides", func(t *testing.T) {
		t.Setenv("IDCARD_DATA_DIR", "/srv/holders")
		t.Setenv("IDCARD_FONT_DIR", "/srv/fonts")
		t.Setenv("IDCARD_LOG_LEVEL", "debug")
		t.Setenv("IDCARD_FETCH_TIMEOUT", "2s")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "/srv/holders", cfg.Data.Dir)
		assert.Equal(t, "/srv/fonts", cfg.Render.FontDir)
		assert.Equal(t, "debug", cfg.Logging.Level)
		d, err := cfg.GetFetchTimeout()
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, d)
	})
}

func TestLoaderFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Render.AllowFileSources = true
	l := cfg.Loader()
	assert.True(t, l.AllowFiles)
	assert.Equal(t, "data", l.BaseDir)
	assert.Equal(t, imagepkg.MaxSourcePixels, l.MaxPixels)

	cfg, err := Load(writeConfig(t, "render:\n  max_source_pixels: 1000000\n"))
	require.NoError(t, err)
	assert.Equal(t, 1000000, cfg.Loader().MaxPixels)
}

func TestExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "idcard.example.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"badge", "standard"}, cfg.TemplateNames())
	badge, ok := cfg.Template("badge")
	require.True(t, ok)
	assert.Equal(t, 400, badge.Width)
	require.NotNil(t, badge.Profile)
	assert.Equal(t, 150, badge.Profile.Width)
	require.Len(t, badge.Texts, 3)
	assert.Equal(t, "center", badge.Texts[0].Align)
}
