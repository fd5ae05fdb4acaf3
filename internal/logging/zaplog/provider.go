// Package zaplog adapts go.uber.org/zap to the theming logging contract.
// When a file is configured, entries are written as JSON through a
// lumberjack rotating sink; otherwise they go to stdout.
package zaplog

import (
	"context"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-cms-theming/internal/logging"
	"github.com/goliatone/go-cms-theming/pkg/interfaces"
)

// Config selects level, encoding and the optional rotating file sink.
type Config struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Writer     io.Writer
}

// Provider hands out sugared zap loggers named after theming modules.
type Provider struct {
	root *zap.SugaredLogger
}

// NewProvider builds the zap core described by cfg.
func NewProvider(cfg Config) *Provider {
	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		NameKey:      "logger",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
		EncodeName:   zapcore.FullNameEncoder,
	}

	encoder := zapcore.NewJSONEncoder(encCfg)
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "console") {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, sink(cfg), parseLevel(cfg.Level))
	return &Provider{root: zap.New(core).Sugar()}
}

func sink(cfg Config) zapcore.WriteSyncer {
	if cfg.Writer != nil {
		return zapcore.AddSync(cfg.Writer)
	}
	if file := strings.TrimSpace(cfg.File); file != "" {
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    orDefault(cfg.MaxSizeMB, 50),
			MaxBackups: orDefault(cfg.MaxBackups, 7),
			MaxAge:     orDefault(cfg.MaxAgeDays, 14),
			Compress:   true,
		})
	}
	return zapcore.AddSync(os.Stdout)
}

func orDefault(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

// Sync flushes buffered entries.
func (p *Provider) Sync() error {
	if p == nil {
		return nil
	}
	return p.root.Sync()
}

// GetLogger returns a named child logger.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil {
		return logging.NoOp()
	}
	if name = strings.TrimSpace(name); name != "" {
		return &adapter{inner: p.root.Named(name)}
	}
	return &adapter{inner: p.root}
}

type adapter struct {
	inner *zap.SugaredLogger
}

var (
	_ interfaces.Logger       = (*adapter)(nil)
	_ interfaces.FieldsLogger = (*adapter)(nil)
)

// zap has no trace level; trace entries are emitted at debug.
func (l *adapter) Trace(msg string, args ...any) { l.inner.Debugw(msg, args...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debugw(msg, args...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Infow(msg, args...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warnw(msg, args...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Errorw(msg, args...) }
func (l *adapter) Fatal(msg string, args ...any) { l.inner.Fatalw(msg, args...) }

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	args := make([]any, 0, len(fields)*2)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		args = append(args, key, fields[key])
	}
	return &adapter{inner: l.inner.With(args...)}
}

func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	return l.WithFields(logging.ContextFields(ctx))
}
