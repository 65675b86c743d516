package logger

import (
	"context"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents the severity of a log message.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zap() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLevel parses a string into a Level.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Logger is a leveled printf-style logger on top of zap.
type Logger struct {
	sugar *zap.SugaredLogger
	level Level
}

type settings struct {
	out      io.Writer
	level    Level
	prefix   string
	colorize bool
	file     string
}

// Option configures a Logger.
type Option func(*settings)

// WithOutput sets the console output destination.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		s.out = w
	}
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) Option {
	return func(s *settings) {
		s.level = level
	}
}

// WithPrefix names the logger.
func WithPrefix(prefix string) Option {
	return func(s *settings) {
		s.prefix = prefix
	}
}

// WithColors enables or disables colorized levels on the console.
func WithColors(enabled bool) Option {
	return func(s *settings) {
		s.colorize = enabled
	}
}

// WithFile additionally writes JSON lines to a size-rotated file.
func WithFile(path string) Option {
	return func(s *settings) {
		s.file = path
	}
}

// New creates a new Logger with the given options.
func New(opts ...Option) *Logger {
	s := settings{
		out:      os.Stdout,
		level:    INFO,
		colorize: true,
	}
	for _, opt := range opts {
		opt(&s)
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	consoleCfg.EncodeCaller = zapcore.ShortCallerEncoder
	consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if s.colorize {
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level := s.level.zap()
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(s.out), level),
	}

	if s.file != "" {
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.TimeKey = "timestamp"
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(fileCfg),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   s.file,
				MaxSize:    100, // MB
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}),
			level,
		))
	}

	// Skip logf and the exported wrapper so the caller is the call site.
	z := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(2))
	if s.prefix != "" {
		z = z.Named(s.prefix)
	}
	return &Logger{sugar: z.Sugar(), level: s.level}
}

var defaultLogger = New()

// SetDefault sets the default logger.
func SetDefault(l *Logger) {
	defaultLogger = l
}

// Default returns the default logger.
func Default() *Logger {
	return defaultLogger
}

// Level returns the minimum level this logger emits.
func (l *Logger) Level() Level {
	return l.level
}

// WithField returns a new logger with the given field added.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{sugar: l.sugar.With(key, value), level: l.level}
}

// WithFields returns a new logger with the given fields added, in key order.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(fields)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return &Logger{sugar: l.sugar.With(args...), level: l.level}
}

// WithPrefix returns a child logger named after prefix.
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{sugar: l.sugar.Named(prefix), level: l.level}
}

// Sync flushes buffered output.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

func (l *Logger) logf(level Level, msg string, args ...any) {
	switch level {
	case DEBUG:
		l.sugar.Debugf(msg, args...)
	case INFO:
		l.sugar.Infof(msg, args...)
	case WARN:
		l.sugar.Warnf(msg, args...)
	default:
		l.sugar.Errorf(msg, args...)
	}
}

// Debug logs a message at DEBUG level.
func (l *Logger) Debug(msg string, args ...any) {
	l.logf(DEBUG, msg, args...)
}

// Info logs a message at INFO level.
func (l *Logger) Info(msg string, args ...any) {
	l.logf(INFO, msg, args...)
}

// Warn logs a message at WARN level.
func (l *Logger) Warn(msg string, args ...any) {
	l.logf(WARN, msg, args...)
}

// Error logs a message at ERROR level.
func (l *Logger) Error(msg string, args ...any) {
	l.logf(ERROR, msg, args...)
}

// Package-level functions that use the default logger.

func Debug(msg string, args ...any) { defaultLogger.logf(DEBUG, msg, args...) }
func Info(msg string, args ...any)  { defaultLogger.logf(INFO, msg, args...) }
func Warn(msg string, args ...any)  { defaultLogger.logf(WARN, msg, args...) }
func Error(msg string, args ...any) { defaultLogger.logf(ERROR, msg, args...) }

// Context key for request-scoped logger.
type ctxKey struct{}

// FromContext returns the logger from the context, or the default logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return defaultLogger
}

// NewContext returns a new context with the given logger.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}
