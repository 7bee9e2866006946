package telemetry

import (
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stdout, zapcore.InfoLevel)
)

// Init rebuilds the process logger writing JSON lines to w at the given level.
// Unknown levels fall back to info.
func Init(level string, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	l := newLogger(w, parseLevel(level))
	mu.Lock()
	prev := logger
	logger = l
	mu.Unlock()
	_ = prev.Sync()
}

// Debug writes a debug-level log line with the given fields.
func Debug(msg string, fields map[string]any) {
	write(zapcore.DebugLevel, msg, fields)
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	write(zapcore.InfoLevel, msg, fields)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	write(zapcore.WarnLevel, msg, fields)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	write(zapcore.ErrorLevel, msg, fields)
}

func write(level zapcore.Level, msg string, fields map[string]any) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	ce := l.Check(level, msg)
	if ce == nil {
		return
	}
	ce.Write(toFields(fields)...)
}

// toFields sorts keys so log lines are stable across runs.
func toFields(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		v := fields[k]
		if err, ok := v.(error); ok {
			out = append(out, zap.String(k, err.Error()))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}

func newLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	encCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

func parseLevel(raw string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
