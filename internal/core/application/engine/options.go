package engine

import (
	"log/slog"
	"time"

	"freight/internal/core/domain/services"
	"freight/internal/pkg/metrics"
	"freight/internal/pkg/retry"
)

const (
	DefaultPersistTimeout = 5 * time.Second
	DefaultNotifyTimeout  = 10 * time.Second
	DefaultMaxRetries     = 3
)

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithValidator(v services.StepValidator) Option {
	return func(e *Engine) { e.validator = v }
}

// WithPersistPolicy bounds each repository call.
func WithPersistPolicy(p retry.Policy) Option {
	return func(e *Engine) { e.persistPolicy = p }
}

// WithNotifyTimeout bounds each event dispatch. Retries are the
// dispatcher's concern since it knows which deliveries already succeeded.
func WithNotifyTimeout(d time.Duration) Option {
	return func(e *Engine) { e.notifyTimeout = d }
}
