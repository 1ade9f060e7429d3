package logger

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/relgraph/relgraph/utils"
)

// LogrusLogger implements Interface using logrus
type LogrusLogger struct {
	traceOptions
	Logger *logrus.Logger
}

// NewLogrusLogger creates a new logger using logrus
func NewLogrusLogger(logger *logrus.Logger, config Config) Interface {
	return &LogrusLogger{traceOptions: config.traceOptions(), Logger: logger}
}

func (l *LogrusLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *LogrusLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.entry(ctx).Infof(msg, data...)
	}
}

func (l *LogrusLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.entry(ctx).Warnf(msg, data...)
	}
}

func (l *LogrusLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.entry(ctx).Errorf(msg, data...)
	}
}

// Trace logs one executed statement as an entry with sql, elapsed and rows fields
func (l *LogrusLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	out := l.classify(elapsed, err)
	if out == outcomeSkip {
		return
	}

	sql, rows := fc()
	fields := logrus.Fields{"elapsed": elapsed.String(), "sql": sql}
	if rows != -1 {
		fields["rows"] = rows
	}
	entry := l.entry(ctx).WithFields(fields)

	switch out {
	case outcomeFailed:
		entry.WithError(err).Error(msgFailed)
	case outcomeSlow:
		entry.WithField("slow_threshold", l.SlowThreshold.String()).Warn(msgSlow)
	default:
		entry.Info(msgStatement)
	}
}

func (l *LogrusLogger) entry(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(l.Logger).WithField("file", utils.FileWithLineNum())
	if ctx != nil {
		entry = entry.WithContext(ctx)
	}
	return entry
}
