// Package ratelimit provides local token-bucket rate limiting for provider
// calls, bucketed per provider/model pair so a bursty agent cannot starve
// calls routed to other backends.
package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/ahrav/contract-iq/internal/llm/configuration"
	llmerrors "github.com/ahrav/contract-iq/internal/llm/errors"
	"github.com/ahrav/contract-iq/internal/llm/transport"
)

// limiterSet lazily creates one token bucket per provider/model key.
type limiterSet struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

func newLimiterSet(rps float64, burst int) *limiterSet {
	return &limiterSet{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

func (s *limiterSet) get(provider, model string) *rate.Limiter {
	key := provider + "/" + model
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Limit(s.rps), s.burst)
		s.limiters[key] = l
	}
	return l
}

// NewMiddleware creates rate limiting middleware. Calls block until a token
// is available or the context is done; cancellation surfaces as a
// rate-limit error so callers can distinguish it from provider failures.
func NewMiddleware(cfg configuration.RateLimitConfig) transport.Middleware {
	limiters := newLimiterSet(cfg.TokensPerSecond, cfg.BurstSize)

	return func(next transport.Handler) transport.Handler {
		return transport.HandlerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
			if err := limiters.get(req.Provider, req.Model).Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: %w", llmerrors.ErrRateLimitExceeded, err)
			}
			return next.Handle(ctx, req)
		})
	}
}
