package relgraph

import "github.com/relgraph/relgraph/logger"

// Config relgraph config
type Config struct {
	// Logger receives every statement through Trace
	Logger logger.Interface
	// Cascade used by calls that do not pick a mode with WithCascade,
	// CascadeDefault keeps the per operation default
	Cascade CascadeMode
}

// ConfigOption use functional option for Config
type ConfigOption func(c *Config)

// WithLogger set logger
func WithLogger(logger logger.Interface) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithDefaultCascade set the cascade mode used when a call does not pick one
func WithDefaultCascade(mode CascadeMode) ConfigOption {
	return func(c *Config) {
		c.Cascade = mode
	}
}
