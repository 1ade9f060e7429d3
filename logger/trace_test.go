package logger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	notFound := fmt.Errorf("orders: %w", ErrRecordNotFound)

	tests := []struct {
		name    string
		options traceOptions
		elapsed time.Duration
		err     error
		want    outcome
	}{
		{"silent", traceOptions{LogLevel: Silent}, 0, assert.AnError, outcomeSkip},
		{"failed", traceOptions{LogLevel: Error}, 0, assert.AnError, outcomeFailed},
		{"failed wins over slow", traceOptions{LogLevel: Info, SlowThreshold: time.Millisecond}, time.Second, assert.AnError, outcomeFailed},
		{"not found reported", traceOptions{LogLevel: Error}, 0, notFound, outcomeFailed},
		{"not found ignored", traceOptions{LogLevel: Error, IgnoreRecordNotFoundError: true}, 0, notFound, outcomeSkip},
		{"slow", traceOptions{LogLevel: Warn, SlowThreshold: time.Millisecond}, time.Second, nil, outcomeSlow},
		{"slow below warn", traceOptions{LogLevel: Error, SlowThreshold: time.Millisecond}, time.Second, nil, outcomeSkip},
		{"no threshold", traceOptions{LogLevel: Warn}, time.Hour, nil, outcomeSkip},
		{"done", traceOptions{LogLevel: Info}, 0, nil, outcomeDone},
		{"done below info", traceOptions{LogLevel: Warn}, 0, nil, outcomeSkip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.options.classify(tt.elapsed, tt.err))
		})
	}
}

func TestTraceOptionsFromConfig(t *testing.T) {
	options := Config{
		LogLevel:                  Warn,
		SlowThreshold:             time.Second,
		ParameterizedQueries:      true,
		IgnoreRecordNotFoundError: true,
	}.traceOptions()

	assert.Equal(t, traceOptions{LogLevel: Warn, SlowThreshold: time.Second, Parameterized: true, IgnoreRecordNotFoundError: true}, options)

	_, params := options.ParamsFilter(context.Background(), "SELECT :id", 1)
	assert.Nil(t, params)
}
