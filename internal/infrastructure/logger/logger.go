// Package logger builds the zap loggers used by the server and the migrate
// command and carries the request scope through context.Context.
package logger

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Config selects level, encoding and destination. Service and Env are
// attached to every entry when set.
type Config struct {
	Level   string // debug, info, warn, error
	Format  string // json or console
	Output  string // stdout, stderr or a file path
	Service string
	Env     string
}

// New builds a logger from cfg. Unknown levels and formats are rejected so
// that a typo in the configuration fails at startup.
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	encoder, err := newEncoder(cfg.Format)
	if err != nil {
		return nil, err
	}
	sink, err := openSink(cfg.Output)
	if err != nil {
		return nil, err
	}

	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	}
	if cfg.Env == "development" {
		opts = append(opts, zap.Development())
	}

	log := zap.New(zapcore.NewCore(encoder, sink, level), opts...)
	if cfg.Service != "" {
		log = log.With(zap.String("service", cfg.Service))
	}
	if cfg.Env != "" {
		log = log.With(zap.String("env", cfg.Env))
	}
	return log, nil
}

// ParseLevel accepts the zap level names plus "warning". An empty name means info.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return zapcore.InfoLevel, nil
	case "warning":
		return zapcore.WarnLevel, nil
	}
	level, err := zapcore.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log level %q: %w", name, err)
	}
	return level, nil
}

func newEncoder(format string) (zapcore.Encoder, error) {
	ec := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(timeLayout),
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	switch strings.ToLower(format) {
	case "", "json":
		return zapcore.NewJSONEncoder(ec), nil
	case "console":
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.EncodeDuration = zapcore.StringDurationEncoder
		return zapcore.NewConsoleEncoder(ec), nil
	default:
		return nil, fmt.Errorf("log format %q: want json or console", format)
	}
}

// openSink resolves stdout, stderr or a file path through zap.Open, which
// appends to existing files.
func openSink(output string) (zapcore.WriteSyncer, error) {
	target := strings.TrimSpace(output)
	switch strings.ToLower(target) {
	case "", "stdout":
		target = "stdout"
	case "stderr":
		target = "stderr"
	}
	sink, _, err := zap.Open(target)
	if err != nil {
		return nil, fmt.Errorf("log output %q: %w", output, err)
	}
	return sink, nil
}

// Tee returns a logger that also writes every entry to core. It is used to
// forward logs to the OpenTelemetry bridge.
func Tee(log *zap.Logger, core zapcore.Core) *zap.Logger {
	if core == nil {
		return log
	}
	return log.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, core)
	}))
}

// Sync flushes buffered entries. Terminals reject fsync, which is not an error here.
func Sync(log *zap.Logger) error {
	err := log.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EBADF) {
		return nil
	}
	return err
}
