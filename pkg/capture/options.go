package capture

import "go.uber.org/zap"

// DefaultMaxAttempts bounds how many invalid answers a prompt accepts before
// the collector gives up.
const DefaultMaxAttempts = 5

// Option configures the Collector.
type Option func(*Collector)

// WithPromptDriver overrides the prompt driver used by the collector.
func WithPromptDriver(driver PromptDriver) Option {
	return func(c *Collector) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithLogger sets the logger. Default: no logging.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxAttempts sets how many invalid answers each prompt tolerates.
// Values below one are ignored.
func WithMaxAttempts(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}
