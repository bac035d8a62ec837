package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
)

type options struct {
	logger       log.Logger
	mode         string
	excludePaths []string
	limiter      *ClientLimiter
	metrics      http.Handler
}

// Option configures a Server
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger: log.NewNopLogger(),
		mode:   gin.ReleaseMode,
	}
}

// WithLogger sets the logger used by the request logging middleware
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMode sets the gin mode: debug, release or test
func WithMode(mode string) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithExcludePaths skips request logging for the given paths
func WithExcludePaths(paths []string) Option {
	return func(o *options) {
		o.excludePaths = paths
	}
}

// WithRateLimit limits requests per client. A nil limiter disables limiting.
func WithRateLimit(limiter *ClientLimiter) Option {
	return func(o *options) {
		o.limiter = limiter
	}
}

// WithMetrics serves handler on /metrics
func WithMetrics(handler http.Handler) Option {
	return func(o *options) {
		o.metrics = handler
	}
}
