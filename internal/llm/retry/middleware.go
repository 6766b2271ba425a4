// Package retry provides the retry middleware for transient provider
// failures: bounded attempts, exponential backoff with full jitter, and
// respect for server-requested Retry-After durations.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahrav/contract-iq/internal/llm/configuration"
	llmerrors "github.com/ahrav/contract-iq/internal/llm/errors"
	"github.com/ahrav/contract-iq/internal/llm/transport"
)

var (
	errMaxAttemptsInvalid     = errors.New("maxAttempts must be greater than 0")
	errInitialIntervalInvalid = errors.New("initialInterval must be greater than 0")
	errMaxIntervalInvalid     = errors.New("maxInterval must be >= initialInterval")
	errMultiplierInvalid      = errors.New("multiplier must be >= 1.0")

	errContextCancelled    = errors.New("context cancelled during retry")
	errAllRetriesExhausted = errors.New("all retries exhausted")
)

// RetryAfterProvider is implemented by errors that carry a server-requested
// backoff duration, which takes precedence over computed backoff.
type RetryAfterProvider interface {
	GetRetryAfter() time.Duration
}

// NewMiddleware creates retry middleware with the given configuration.
func NewMiddleware(cfg configuration.RetryConfig) (transport.Middleware, error) {
	if cfg.MaxAttempts <= 0 {
		return nil, fmt.Errorf("%w, got %d", errMaxAttemptsInvalid, cfg.MaxAttempts)
	}
	if cfg.InitialInterval <= 0 {
		return nil, fmt.Errorf("%w, got %v", errInitialIntervalInvalid, cfg.InitialInterval)
	}
	if cfg.MaxInterval < cfg.InitialInterval {
		return nil, fmt.Errorf("%w, MaxInterval: %v, InitialInterval: %v",
			errMaxIntervalInvalid, cfg.MaxInterval, cfg.InitialInterval)
	}
	if cfg.Multiplier < 1.0 {
		return nil, fmt.Errorf("%w, got %f", errMultiplierInvalid, cfg.Multiplier)
	}

	rm := &retryMiddleware{
		config: cfg,
		logger: slog.Default().With("component", "retry"),
	}
	return rm.middleware(), nil
}

type retryMiddleware struct {
	config configuration.RetryConfig
	logger *slog.Logger
}

func (r *retryMiddleware) middleware() transport.Middleware {
	return func(next transport.Handler) transport.Handler {
		return transport.HandlerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
			var lastErr error

			for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
				if attempt > 1 {
					wait := r.waitFor(attempt, lastErr)
					r.logger.Debug("retrying provider call",
						"provider", req.Provider,
						"model", req.Model,
						"attempt", attempt,
						"wait", wait)
					select {
					case <-time.After(wait):
					case <-ctx.Done():
						return nil, fmt.Errorf("%w: %w", errContextCancelled, ctx.Err())
					}
				}

				resp, err := next.Handle(ctx, req)
				if err == nil {
					return resp, nil
				}
				lastErr = err

				if !llmerrors.IsRetryable(err) || ctx.Err() != nil {
					return nil, err
				}
			}

			return nil, fmt.Errorf("%w after %d attempts: %w",
				errAllRetriesExhausted, r.config.MaxAttempts, lastErr)
		})
	}
}

// waitFor picks the backoff before the given attempt, preferring a
// server-requested Retry-After over the computed schedule.
func (r *retryMiddleware) waitFor(attempt int, lastErr error) time.Duration {
	var rap RetryAfterProvider
	if errors.As(lastErr, &rap) {
		if after := rap.GetRetryAfter(); after > 0 {
			return after
		}
	}
	return backoff(attempt-1, r.config.InitialInterval, r.config.MaxInterval,
		r.config.Multiplier, r.config.UseJitter)
}
