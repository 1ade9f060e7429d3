package logger

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/relgraph/relgraph/utils"
)

// ZerologLogger implements Interface using zerolog
type ZerologLogger struct {
	traceOptions
	Logger zerolog.Logger
}

// NewZerologLogger creates a new logger using zerolog
func NewZerologLogger(logger zerolog.Logger, config Config) Interface {
	return &ZerologLogger{traceOptions: config.traceOptions(), Logger: logger}
}

// NewZerologConsoleLogger writes human readable lines to out
func NewZerologConsoleLogger(out io.Writer, config Config) Interface {
	console := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = out
		w.TimeFormat = time.RFC3339
		w.NoColor = !config.Colorful
	})
	logger := zerolog.New(console).Level(ZerologLevel(config.LogLevel)).With().Timestamp().Logger()
	return NewZerologLogger(logger, config)
}

func (l *ZerologLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *ZerologLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.event(ctx, l.Logger.Info()).Msg(fmt.Sprintf(msg, data...))
	}
}

func (l *ZerologLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.event(ctx, l.Logger.Warn()).Msg(fmt.Sprintf(msg, data...))
	}
}

func (l *ZerologLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.event(ctx, l.Logger.Error()).Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace logs one executed statement
func (l *ZerologLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)

	var (
		event *zerolog.Event
		msg   string
	)
	switch l.classify(elapsed, err) {
	case outcomeFailed:
		event, msg = l.Logger.Error().Err(err), msgFailed
	case outcomeSlow:
		event, msg = l.Logger.Warn().Dur("slow_threshold", l.SlowThreshold), msgSlow
	case outcomeDone:
		event, msg = l.Logger.Info(), msgStatement
	default:
		return
	}

	sql, rows := fc()
	event = l.event(ctx, event).Dur("elapsed", elapsed).Str("sql", sql)
	if rows != -1 {
		event = event.Int64("rows", rows)
	}
	event.Msg(msg)
}

func (l *ZerologLogger) event(ctx context.Context, event *zerolog.Event) *zerolog.Event {
	event = event.Str("file", utils.FileWithLineNum())
	if ctx != nil {
		event = event.Ctx(ctx)
	}
	return event
}

// ZerologLevel converts LogLevel to zerolog.Level
func ZerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case Silent:
		return zerolog.Disabled
	case Error:
		return zerolog.ErrorLevel
	case Warn:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
