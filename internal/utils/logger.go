package utils

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelError LogLevel = "error"
)

type Logger struct {
	level      LogLevel
	sugar      *zap.SugaredLogger
	RawBodyLog bool
}

// NewLogger builds a zap-backed logger. Production uses the JSON encoder,
// everything else the console encoder.
func NewLogger(level string, rawBodyLog bool, production bool) *Logger {
	logLevel := parseLogLevel(level)

	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(toZapLevel(logLevel))
	cfg.DisableStacktrace = true

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		base = zap.NewExample()
	}

	return &Logger{
		level:      logLevel,
		sugar:      base.Sugar(),
		RawBodyLog: rawBodyLog,
	}
}

func NewDiscardLogger() *Logger {
	return &Logger{
		level: LevelInfo,
		sugar: zap.NewNop().Sugar(),
	}
}

func parseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func toZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// With returns a child logger tagging every entry with the request id.
func (l *Logger) With(reqID string) *Logger {
	if reqID == "" {
		return l
	}
	return &Logger{
		level:      l.level,
		sugar:      l.sugar.With("req_id", reqID),
		RawBodyLog: l.RawBodyLog,
	}
}

func (l *Logger) Level() LogLevel {
	return l.level
}

func (l *Logger) Info(format string, v ...any) {
	l.sugar.Infof(format, v...)
}

func (l *Logger) Error(format string, v ...any) {
	l.sugar.Errorf(format, v...)
}

func (l *Logger) Debug(format string, v ...any) {
	l.sugar.Debugf(format, v...)
}

func (l *Logger) Fatal(v ...any) {
	l.sugar.Fatal(v...)
}

func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
