package logger

import (
	"context"
	"errors"
	"time"
)

// Messages the structured adapters attach to statement records
const (
	msgStatement = "statement"
	msgSlow      = "SLOW statement"
	msgFailed    = "statement failed"
)

// outcome how a finished statement is reported
type outcome int

const (
	outcomeSkip outcome = iota
	outcomeFailed
	outcomeSlow
	outcomeDone
)

// traceOptions the part of Config the adapters keep
type traceOptions struct {
	LogLevel                  LogLevel
	SlowThreshold             time.Duration
	Parameterized             bool
	IgnoreRecordNotFoundError bool
}

func (c Config) traceOptions() traceOptions {
	return traceOptions{
		LogLevel:                  c.LogLevel,
		SlowThreshold:             c.SlowThreshold,
		Parameterized:             c.ParameterizedQueries,
		IgnoreRecordNotFoundError: c.IgnoreRecordNotFoundError,
	}
}

// classify failures win over slowness, slowness over plain info records
func (o traceOptions) classify(elapsed time.Duration, err error) outcome {
	switch {
	case o.LogLevel <= Silent:
		return outcomeSkip
	case err != nil && o.LogLevel >= Error && (!o.IgnoreRecordNotFoundError || !errors.Is(err, ErrRecordNotFound)):
		return outcomeFailed
	case o.SlowThreshold != 0 && elapsed > o.SlowThreshold && o.LogLevel >= Warn:
		return outcomeSlow
	case o.LogLevel >= Info:
		return outcomeDone
	}
	return outcomeSkip
}

// ParamsFilter drops parameters when the logger is parameterized
func (o traceOptions) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if o.Parameterized {
		return sql, nil
	}
	return sql, params
}
