package circuitbreaker

import (
	"context"
	"fmt"
	"sync"

	"github.com/ahrav/contract-iq/internal/llm/configuration"
	llmerrors "github.com/ahrav/contract-iq/internal/llm/errors"
	"github.com/ahrav/contract-iq/internal/llm/transport"
)

// Registry holds one breaker per provider and exposes health snapshots.
type Registry struct {
	mu       sync.Mutex
	cfg      Config
	breakers map[string]*Breaker
}

// NewRegistry creates an empty breaker registry.
func NewRegistry(cfg configuration.CircuitBreakerConfig) *Registry {
	return &Registry{
		cfg: Config{
			FailureThreshold: cfg.FailureThreshold,
			SuccessThreshold: cfg.SuccessThreshold,
			OpenTimeout:      cfg.OpenTimeout,
		},
		breakers: make(map[string]*Breaker),
	}
}

// Get returns the breaker for a provider, creating it on first use.
func (r *Registry) Get(provider string) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.breakers[provider]
	if !ok {
		b = NewBreaker(r.cfg)
		r.breakers[provider] = b
	}
	return b
}

// HealthSnapshot reports breaker state per provider for status surfaces.
func (r *Registry) HealthSnapshot() map[string]Health {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]Health, len(r.breakers))
	for name, b := range r.breakers {
		out[name] = b.Snapshot()
	}
	return out
}

// NewMiddleware creates circuit breaker middleware backed by the registry.
// Failure classification: only retryable provider-side failures count
// against the breaker; validation and auth errors do not open it.
func NewMiddleware(reg *Registry) transport.Middleware {
	return func(next transport.Handler) transport.Handler {
		return transport.HandlerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
			breaker := reg.Get(req.Provider)
			if !breaker.Allow() {
				return nil, fmt.Errorf("%w: %s", llmerrors.ErrCircuitBreakerOpen, req.Provider)
			}

			resp, err := next.Handle(ctx, req)
			if err != nil {
				if llmerrors.IsRetryable(err) {
					breaker.RecordFailure()
				}
				return nil, err
			}

			breaker.RecordSuccess()
			return resp, nil
		})
	}
}
