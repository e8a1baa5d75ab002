package httpapi

import (
	"log/slog"

	"github.com/dmitrymomot/formcheck/pkg/metrics"
)

type options struct {
	logger      *slog.Logger
	metrics     *metrics.Collector
	maxBodySize int64
}

// Option configures the router and Guard.
type Option func(*options)

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records every check on c and, for the router, serves c on /metrics.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *options) { o.metrics = c }
}

// WithMaxBodySize limits the request body size in bytes.
func WithMaxBodySize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBodySize = n
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:      slog.Default(),
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
