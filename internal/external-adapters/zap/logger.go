// Package zap adapts go.uber.org/zap to the domain Logger contract.
package zap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ochairo/mubench/internal/domain/interfaces"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the logger
type Options struct {
	// Verbose lowers the console level from INFO to DEBUG
	Verbose bool

	// LogFile receives every message at DEBUG as JSON; empty disables it
	LogFile string
}

// Logger implements interfaces.Logger on top of zap
type Logger struct {
	z    *zap.Logger
	file *os.File
}

// NewLogger builds a console logger on stderr, tee'd into LogFile when set
func NewLogger(opts Options) (*Logger, error) {
	consoleLevel := zapcore.InfoLevel
	if opts.Verbose {
		consoleLevel = zapcore.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		consoleLevel,
	)

	if opts.LogFile == "" {
		return &Logger{z: zap.New(consoleCore)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	//nolint:gosec // G304: log file path comes from the command line
	file, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(file),
		zapcore.DebugLevel,
	)

	return &Logger{
		z:    zap.New(zapcore.NewTee(consoleCore, fileCore)),
		file: file,
	}, nil
}

// Wrap adapts an existing zap logger; nil yields a no-op logger
func Wrap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{z: z}
}

// Debug logs debug-level messages
func (l *Logger) Debug(msg string, fields ...interfaces.Field) {
	l.z.Debug(msg, toZap(fields)...)
}

// Info logs informational messages
func (l *Logger) Info(msg string, fields ...interfaces.Field) {
	l.z.Info(msg, toZap(fields)...)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, fields ...interfaces.Field) {
	l.z.Warn(msg, toZap(fields)...)
}

// Error logs error messages
func (l *Logger) Error(msg string, fields ...interfaces.Field) {
	l.z.Error(msg, toZap(fields)...)
}

// Named returns a child logger
func (l *Logger) Named(name string) interfaces.Logger {
	return &Logger{z: l.z.Named(name)}
}

// Zap exposes the underlying zap logger
func (l *Logger) Zap() *zap.Logger {
	return l.z
}

// Close flushes buffered entries and closes the log file
func (l *Logger) Close() error {
	// Sync on a console fd fails with EINVAL on some platforms
	_ = l.z.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func toZap(fields []interfaces.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			out = append(out, zap.NamedError(f.Key, err))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}
