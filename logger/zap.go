package logger

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/relgraph/relgraph/utils"
)

// ZapLogger implements Interface using zap
type ZapLogger struct {
	traceOptions
	Logger *zap.Logger
}

// NewZapLogger creates a new logger using zap
func NewZapLogger(logger *zap.Logger, config Config) Interface {
	return &ZapLogger{traceOptions: config.traceOptions(), Logger: logger}
}

// NewZapProductionLogger builds a JSON zap logger at the level in config
func NewZapProductionLogger(config Config) (Interface, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(ZapLevel(config.LogLevel))

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(logger, config), nil
}

func (l *ZapLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *ZapLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.Logger.Info(fmt.Sprintf(msg, data...), l.caller())
	}
}

func (l *ZapLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.Logger.Warn(fmt.Sprintf(msg, data...), l.caller())
	}
}

func (l *ZapLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.Logger.Error(fmt.Sprintf(msg, data...), l.caller())
	}
}

// Trace logs one executed statement with its elapsed time and affected rows
func (l *ZapLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	out := l.classify(elapsed, err)
	if out == outcomeSkip {
		return
	}

	sql, rows := fc()
	fields := []zap.Field{l.caller(), zap.Duration("elapsed", elapsed), zap.String("sql", sql)}
	if rows != -1 {
		fields = append(fields, zap.Int64("rows", rows))
	}

	switch out {
	case outcomeFailed:
		l.Logger.Error(msgFailed, append(fields, zap.Error(err))...)
	case outcomeSlow:
		l.Logger.Warn(msgSlow, append(fields, zap.Duration("slow_threshold", l.SlowThreshold))...)
	default:
		l.Logger.Info(msgStatement, fields...)
	}
}

func (l *ZapLogger) caller() zap.Field {
	return zap.String("file", utils.FileWithLineNum())
}

// ZapLevel converts LogLevel to zapcore.Level, Silent keeps only fatal records
func ZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case Silent:
		return zapcore.FatalLevel
	case Error:
		return zapcore.ErrorLevel
	case Warn:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
