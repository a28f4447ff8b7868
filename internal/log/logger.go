// Package log is the application-wide structured logger. It wraps logrus
// with a small package-level API and optional rotating file output.
package log

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"albumview/internal/errors"
)

var logger = NewLogger()

// Field is a single key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger writes leveled, structured log entries.
type Logger struct {
	base *logrus.Logger
	file *lumberjack.Logger
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sends log output to w.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.base.SetOutput(w)
	}
}

// WithJSON switches to one JSON object per line.
func WithJSON() Option {
	return func(l *Logger) {
		l.base.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	}
}

// WithLevel sets the minimum level by name (debug, info, warn, error).
// Unknown names leave the level unchanged.
func WithLevel(name string) Option {
	return func(l *Logger) {
		if lvl, err := logrus.ParseLevel(name); err == nil {
			l.base.SetLevel(lvl)
		}
	}
}

// Rotation controls how a log file is rotated.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// WithFile writes log output to a rotating file instead of stdout.
func WithFile(path string, rot Rotation) Option {
	return func(l *Logger) {
		l.file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    rot.MaxSizeMB,
			MaxBackups: rot.MaxBackups,
			MaxAge:     rot.MaxAgeDays,
			Compress:   rot.Compress,
		}
		l.base.SetOutput(l.file)
	}
}

// NewLogger creates a text logger on stdout at info level.
func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stdout)
	base.SetLevel(logrus.InfoLevel)
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l := &Logger{base: base}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Configure replaces the package logger. The previous logger's file, if
// any, is closed.
func Configure(opts ...Option) {
	prev := logger
	logger = NewLogger(opts...)
	if prev != nil && prev.file != nil {
		prev.file.Close()
	}
}

// Close releases the package logger's file, if one is open.
func Close() error {
	return logger.Close()
}

// Close releases the log file, if one is open.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// SetDebug toggles debug output on the package logger.
func SetDebug(debug bool) {
	logger.SetDebug(debug)
}

// SetDebug toggles debug output.
func (l *Logger) SetDebug(debug bool) {
	if debug {
		l.base.SetLevel(logrus.DebugLevel)
	} else {
		l.base.SetLevel(logrus.InfoLevel)
	}
}

// With returns an entry carrying fields.
func (l *Logger) With(fields ...Field) *Entry {
	return (&Entry{e: logrus.NewEntry(l.base)}).With(fields...)
}

// WithContext returns an entry bound to ctx.
func (l *Logger) WithContext(ctx context.Context) *Entry {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Entry{e: l.base.WithContext(ctx)}
}

func (l *Logger) Info(args ...interface{})                 { l.base.Info(args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.base.Infof(format, args...) }
func (l *Logger) Debug(args ...interface{})                { l.base.Debug(args...) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.base.Debugf(format, args...) }
func (l *Logger) Warn(args ...interface{})                 { l.base.Warn(args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.base.Warnf(format, args...) }
func (l *Logger) Error(args ...interface{})                { l.base.Error(args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.base.Errorf(format, args...) }

// Entry is a log entry with attached fields.
type Entry struct {
	e *logrus.Entry
}

// With returns a copy of the entry with more fields.
func (e *Entry) With(fields ...Field) *Entry {
	lf := make(logrus.Fields, len(fields))
	for _, f := range fields {
		lf[f.Key] = f.Value
	}
	return &Entry{e: e.e.WithFields(lf)}
}

func (e *Entry) Info(args ...interface{})                 { e.e.Info(args...) }
func (e *Entry) Infof(format string, args ...interface{})  { e.e.Infof(format, args...) }
func (e *Entry) Debug(args ...interface{})                { e.e.Debug(args...) }
func (e *Entry) Debugf(format string, args ...interface{}) { e.e.Debugf(format, args...) }
func (e *Entry) Warn(args ...interface{})                 { e.e.Warn(args...) }
func (e *Entry) Warnf(format string, args ...interface{})  { e.e.Warnf(format, args...) }
func (e *Entry) Error(args ...interface{})                { e.e.Error(args...) }
func (e *Entry) Errorf(format string, args ...interface{}) { e.e.Errorf(format, args...) }

// Info logs a formatted message at info level.
func Info(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Debug logs a message with arguments
func Debug(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Debug(msg)
		return
	}
	logger.Debugf(msg+": %v", args...)
}

// Debugf logs a formatted message
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Error logs an error message with arguments
func Error(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Error(msg)
		return
	}
	logger.Errorf(msg+": %v", args...)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// Warn logs a warning message with arguments
func Warn(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Warn(msg)
		return
	}
	logger.Warnf(msg+": %v", args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// LogWithFields returns a package-logger entry carrying fields.
func LogWithFields(fields ...Field) *Entry {
	return logger.With(fields...)
}

// LogWithError returns an entry describing err: its message, its kind and
// whatever context the typed error carries.
func LogWithError(err error) *Entry {
	if err == nil {
		return logger.With(F("error", "<nil>"))
	}
	fields := []Field{
		F("error", err.Error()),
		F("error_kind", errors.KindOf(err).String()),
	}
	var cfgErr *errors.ConfigError
	if errors.As(err, &cfgErr) && cfgErr.Param() != "" {
		fields = append(fields, F("param", cfgErr.Param()))
	}
	var reqErr *errors.RequestError
	if errors.As(err, &reqErr) {
		fields = append(fields, F("url", reqErr.URL()))
		if reqErr.Status() != 0 {
			fields = append(fields, F("status", reqErr.Status()))
		}
	}
	var opErr *errors.OperationError
	if errors.As(err, &opErr) && opErr.Operation() != "" {
		fields = append(fields, F("operation", opErr.Operation()))
	}
	return logger.With(fields...)
}

// LogError logs err with msg at error level.
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}
