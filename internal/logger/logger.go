// Package logger provides logging functionality for the application.
package logger

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Interface defines the logger interface.
type Interface interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
	Fatal(msg string, fields ...any)
	With(fields ...any) Interface
	WithComponent(component string) Interface
	WithError(err error) Interface
}

// Logger implements the Interface on top of zap.
type Logger struct {
	zapLogger *zap.Logger
}

// logLevels maps string levels to zapcore.Level.
var logLevels = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
	"fatal": zapcore.FatalLevel,
}

// New creates a new logger instance.
func New(config *Config) (Interface, error) {
	if config.Level == "" {
		config.Level = DefaultLevel
	}
	if config.Encoding == "" {
		config.Encoding = DefaultEncoding
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	if config.Development {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
		}
		encoderConfig.ConsoleSeparator = " | "
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var encoder zapcore.Encoder
	if config.Encoding == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(
		encoder,
		zapcore.AddSync(os.Stdout),
		getLogLevel(string(config.Level)),
	)

	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	}
	if config.Development {
		opts = append(opts, zap.Development())
	}

	return &Logger{zapLogger: zap.New(core, opts...)}, nil
}

// getLogLevel converts a string level to zapcore.Level.
func getLogLevel(level string) zapcore.Level {
	lvl, exists := logLevels[strings.ToLower(level)]
	if !exists {
		return zapcore.InfoLevel
	}
	return lvl
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...any) {
	l.zapLogger.Debug(msg, toZapFields(fields)...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...any) {
	l.zapLogger.Info(msg, toZapFields(fields)...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...any) {
	l.zapLogger.Warn(msg, toZapFields(fields)...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...any) {
	l.zapLogger.Error(msg, toZapFields(fields)...)
}

// Fatal logs a fatal message and exits.
func (l *Logger) Fatal(msg string, fields ...any) {
	l.zapLogger.Fatal(msg, toZapFields(fields)...)
}

// With creates a new logger with the given fields.
func (l *Logger) With(fields ...any) Interface {
	return &Logger{zapLogger: l.zapLogger.With(toZapFields(fields)...)}
}

// WithComponent adds a component name to the logger.
func (l *Logger) WithComponent(component string) Interface {
	return l.With("component", component)
}

// WithError adds an error to the logger.
func (l *Logger) WithError(err error) Interface {
	return l.With("error", err)
}

// toZapFields converts a flat key-value list to zap.Field values.
// Keys must be strings; a trailing key with no value is dropped.
func toZapFields(fields []any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	zapFields := make([]zap.Field, 0, len(fields))
	for i := 0; i < len(fields); i++ {
		switch field := fields[i].(type) {
		case zap.Field:
			zapFields = append(zapFields, field)
		case string:
			if i+1 >= len(fields) {
				continue
			}
			zapFields = append(zapFields, zap.Any(field, fields[i+1]))
			i++
		}
	}

	return zapFields
}
