package logger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/relgraph/relgraph/utils"
)

// SlogLogger implements Interface on a log/slog handler
type SlogLogger struct {
	traceOptions
	Logger *slog.Logger
}

// NewSlogLogger creates a new logger using log/slog
func NewSlogLogger(logger *slog.Logger, config Config) Interface {
	return &SlogLogger{traceOptions: config.traceOptions(), Logger: logger}
}

// LogMode sets the log level
func (l *SlogLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *SlogLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.log(ctx, slog.LevelInfo, fmt.Sprintf(msg, data...))
	}
}

func (l *SlogLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.log(ctx, slog.LevelWarn, fmt.Sprintf(msg, data...))
	}
}

func (l *SlogLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.log(ctx, slog.LevelError, fmt.Sprintf(msg, data...))
	}
}

// Trace logs one executed statement, grouped under "statement"
func (l *SlogLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)

	var level slog.Level
	attrs := []slog.Attr{slog.Duration("elapsed", elapsed)}
	switch l.classify(elapsed, err) {
	case outcomeFailed:
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", err.Error()))
	case outcomeSlow:
		level = slog.LevelWarn
		attrs = append(attrs, slog.Duration("slow_threshold", l.SlowThreshold))
	case outcomeDone:
		level = slog.LevelInfo
	default:
		return
	}

	sql, rows := fc()
	attrs = append(attrs, slog.String("sql", sql))
	if rows != -1 {
		attrs = append(attrs, slog.Int64("rows", rows))
	}
	l.log(ctx, level, msgStatement, slog.Attr{Key: "statement", Value: slog.GroupValue(attrs...)})
}

func (l *SlogLogger) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	attrs = append(attrs, slog.String("file", utils.FileWithLineNum()))
	l.Logger.LogAttrs(ctx, level, msg, attrs...)
}

// SlogLevel converts LogLevel to slog.Level, Silent maps above Error
func SlogLevel(level LogLevel) slog.Level {
	switch level {
	case Silent:
		return slog.LevelError + 4
	case Error:
		return slog.LevelError
	case Warn:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
