package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/wgomg/wordcloud/internal/layout"
	"github.com/wgomg/wordcloud/internal/mapper"
)

type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

type AppConfig struct {
	Env                Environment
	LogLevel           string
	ServerPort         string
	RawBodyLog         bool
	HttpTimeoutSeconds int
	MaxBodyBytes       int64
	CORSOrigins        []string
}

type ExportConfig struct {
	FontPath   string
	Background string
}

type SessionConfig struct {
	TTL           time.Duration
	PruneInterval time.Duration
}

type TracingConfig struct {
	Endpoint   string
	SampleRate float64
	Insecure   bool
}

type Config struct {
	App     AppConfig
	Cloud   mapper.VisualConfig
	Palette mapper.Palette
	Layout  layout.Bounds
	Export  ExportConfig
	Session SessionConfig
	Tracing TracingConfig
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	appEnv := getEnv("APP_ENV", "development")
	env := parseEnvironment(appEnv)

	palette, err := LoadPalette(getEnv("CLOUD_PALETTE_FILE", ""))
	if err != nil {
		return nil, err
	}

	return &Config{
		App: AppConfig{
			Env:                env,
			LogLevel:           getLogLevel(env),
			ServerPort:         getEnv("APP_SERVER_PORT", "8080"),
			RawBodyLog:         getEnvBool("APP_RAW_BODY_LOG", false),
			HttpTimeoutSeconds: getEnvInt("APP_HTTP_TIMEOUT_SECONDS", 30),
			MaxBodyBytes:       int64(getEnvInt("APP_MAX_BODY_BYTES", 1<<20)),
			CORSOrigins:        getEnvList("APP_CORS_ORIGINS", []string{"*"}),
		},
		Cloud:   loadVisualConfig(),
		Palette: palette,
		Layout: layout.Bounds{
			Width:        getEnvInt("LAYOUT_WIDTH", 1800),
			Height:       getEnvInt("LAYOUT_HEIGHT", 1000),
			Padding:      getEnvInt("LAYOUT_PADDING", 1),
			Spiral:       layout.Spiral(getEnv("LAYOUT_SPIRAL", string(layout.SpiralArchimedean))),
			TimeInterval: time.Duration(getEnvInt("LAYOUT_TIME_BUDGET_MS", 1000)) * time.Millisecond,
			MaxSide:      getEnvInt("LAYOUT_MAX_SIDE", layout.DefaultMaxSide),
		},
		Export: ExportConfig{
			FontPath:   getEnv("EXPORT_FONT_PATH", ""),
			Background: getEnv("EXPORT_BACKGROUND", "#ffffff"),
		},
		Session: SessionConfig{
			TTL:           time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
			PruneInterval: time.Duration(getEnvInt("SESSION_PRUNE_INTERVAL_SECONDS", 300)) * time.Second,
		},
		Tracing: TracingConfig{
			Endpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			SampleRate: getEnvFloat("TRACING_SAMPLE_RATE", 1.0),
			Insecure:   getEnvBool("TRACING_INSECURE", false),
		},
	}, nil
}

func loadVisualConfig() mapper.VisualConfig {
	d := mapper.DefaultVisualConfig()

	return mapper.VisualConfig{
		FontFamily:                  getEnv("CLOUD_FONT_FAMILY", d.FontFamily),
		FontStyle:                   mapper.FontStyle(getEnv("CLOUD_FONT_STYLE", string(d.FontStyle))),
		MinFontSize:                 getEnvInt("CLOUD_MIN_FONT_SIZE", d.MinFontSize),
		MaxFontSize:                 getEnvInt("CLOUD_MAX_FONT_SIZE", d.MaxFontSize),
		MinFontWeight:               getEnvInt("CLOUD_MIN_FONT_WEIGHT", d.MinFontWeight),
		MaxFontWeight:               getEnvInt("CLOUD_MAX_FONT_WEIGHT", d.MaxFontWeight),
		MinRotation:                 getEnvInt("CLOUD_MIN_ROTATION", d.MinRotation),
		MaxRotation:                 getEnvInt("CLOUD_MAX_ROTATION", d.MaxRotation),
		RotationPolicy:              mapper.RotationPolicy(getEnv("CLOUD_ROTATION_POLICY", string(d.RotationPolicy))),
		RotationAngles:              getEnvInts("CLOUD_ROTATION_ANGLES", d.RotationAngles),
		MaxWords:                    getEnvInt("CLOUD_MAX_WORDS", d.MaxWords),
		UseGradients:                getEnvBool("CLOUD_USE_GRADIENTS", d.UseGradients),
		Transition:                  getEnv("CLOUD_TRANSITION", d.Transition),
		AnimationDurationMultiplier: getEnvInt("CLOUD_ANIMATION_MULTIPLIER", d.AnimationDurationMultiplier),
		EnableTooltip:               getEnvBool("CLOUD_ENABLE_TOOLTIP", d.EnableTooltip),
		ScaleDuration:               getEnvInt("CLOUD_SCALE_DURATION_MS", d.ScaleDuration),
		ScaleSize:                   getEnvFloat("CLOUD_SCALE_SIZE", d.ScaleSize),
	}
}

// LoadPalette reads a YAML palette file. An empty path yields the built-in
// palette; a file may leave out colors or gradients to keep the defaults.
func LoadPalette(path string) (mapper.Palette, error) {
	palette := mapper.DefaultPalette()
	if path == "" {
		return palette, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return mapper.Palette{}, fmt.Errorf("read palette %s: %w", path, err)
	}

	var file mapper.Palette
	if err := yaml.Unmarshal(data, &file); err != nil {
		return mapper.Palette{}, fmt.Errorf("parse palette %s: %w", path, err)
	}
	if len(file.Gradients) > 0 {
		palette.Gradients = file.Gradients
	}
	if len(file.Colors) > 0 {
		palette.Colors = file.Colors
	}
	return palette, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.App.ServerPort == "" {
		errs = append(errs, fmt.Errorf("APP_SERVER_PORT is required"))
	}
	if c.App.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("APP_MAX_BODY_BYTES must be positive"))
	}
	if err := c.Cloud.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Palette.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Layout.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Session.TTL <= 0 || c.Session.PruneInterval <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL_MINUTES and SESSION_PRUNE_INTERVAL_SECONDS must be positive"))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("TRACING_SAMPLE_RATE must be within [0, 1]"))
	}
	return errors.Join(errs...)
}

func parseEnvironment(envStr string) Environment {
	env := Environment(strings.ToLower(envStr))

	switch env {
	case Development, Production:
		return env
	default:
		return Development
	}
}

func getLogLevel(env Environment) string {
	if env == Production {
		return getEnv("APP_LOG_LEVEL", "info")
	}

	return getEnv("APP_LOG_LEVEL", "debug")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// getEnvInts falls back to the default when any element is not an integer.
func getEnvInts(key string, defaultValue []int) []int {
	parts := getEnvList(key, nil)
	if parts == nil {
		return defaultValue
	}

	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return defaultValue
		}
		out = append(out, n)
	}
	return out
}
