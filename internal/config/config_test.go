package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wgomg/wordcloud/internal/layout"
	"github.com/wgomg/wordcloud/internal/mapper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, Development, cfg.App.Env)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "8080", cfg.App.ServerPort)
	assert.Equal(t, []string{"*"}, cfg.App.CORSOrigins)
	assert.Equal(t, mapper.DefaultVisualConfig(), cfg.Cloud)
	assert.Equal(t, mapper.DefaultPalette(), cfg.Palette)
	assert.Equal(t, layout.DefaultBounds(), cfg.Layout)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Empty(t, cfg.Tracing.Endpoint)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "PRODUCTION")
	t.Setenv("CLOUD_MAX_WORDS", "50")
	t.Setenv("CLOUD_USE_GRADIENTS", "true")
	t.Setenv("CLOUD_ROTATION_POLICY", "discrete")
	t.Setenv("CLOUD_ROTATION_ANGLES", "0, 90")
	t.Setenv("LAYOUT_SPIRAL", "rectangular")
	t.Setenv("LAYOUT_TIME_BUDGET_MS", "250")
	t.Setenv("APP_CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, Production, cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 50, cfg.Cloud.MaxWords)
	assert.True(t, cfg.Cloud.UseGradients)
	assert.Equal(t, mapper.RotationDiscrete, cfg.Cloud.RotationPolicy)
	assert.Equal(t, []int{0, 90}, cfg.Cloud.RotationAngles)
	assert.Equal(t, layout.SpiralRectangular, cfg.Layout.Spiral)
	assert.Equal(t, 250*time.Millisecond, cfg.Layout.TimeInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSOrigins)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("CLOUD_MAX_WORDS", "many")
	t.Setenv("CLOUD_ROTATION_ANGLES", "0,ninety")
	t.Setenv("CLOUD_ENABLE_TOOLTIP", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Cloud.MaxWords)
	assert.Equal(t, mapper.DefaultRotationAngles, cfg.Cloud.RotationAngles)
	assert.True(t, cfg.Cloud.EnableTooltip)
}

func TestValidateCollectsErrors(t *testing.T) {
	t.Setenv("CLOUD_MIN_FONT_SIZE", "120")
	t.Setenv("LAYOUT_WIDTH", "0")
	t.Setenv("TRACING_SAMPLE_RATE", "2")

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, mapper.ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "maxFontSize")
	assert.Contains(t, err.Error(), "width")
	assert.Contains(t, err.Error(), "TRACING_SAMPLE_RATE")
}

func TestLayoutMaxSide(t *testing.T) {
	t.Setenv("LAYOUT_MAX_SIDE", "1024")
	t.Setenv("LAYOUT_WIDTH", "1800")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Layout.MaxSide)

	err = cfg.Validate()
	assert.ErrorIs(t, err, mapper.ErrInvalidConfiguration)
	assert.ErrorContains(t, err, "width: must be at most 1024")

	t.Setenv("LAYOUT_MAX_SIDE", "100000")
	cfg, err = Load()
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(), "maxSide")
}

func TestLoadPalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
colors: ["#000000", "#ffffff"]
gradients:
  - id: dusk
    type: linear
    angle: 45
    stops:
      - {offset: 0, color: "#ff7e5f"}
      - {offset: 1, color: "#feb47b"}
`), 0o600))

	p, err := LoadPalette(path)
	require.NoError(t, err)
	require.NoError(t, p.Validate())
	assert.Equal(t, []string{"#000000", "#ffffff"}, p.Colors)
	require.Len(t, p.Gradients, 1)
	assert.Equal(t, "dusk", p.Gradients[0].ID)
	assert.Equal(t, mapper.GradientLinear, p.Gradients[0].Type)
	assert.Equal(t, 45.0, p.Gradients[0].Angle)
}

func TestLoadPaletteKeepsMissingSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colors: [\"#123456\"]\n"), 0o600))

	p, err := LoadPalette(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"#123456"}, p.Colors)
	assert.Equal(t, mapper.DefaultPalette().Gradients, p.Gradients)
}

func TestLoadPaletteErrors(t *testing.T) {
	_, err := LoadPalette(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colors: [unclosed"), 0o600))
	_, err = LoadPalette(path)
	assert.Error(t, err)

	t.Setenv("CLOUD_PALETTE_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err = Load()
	assert.Error(t, err)
}
