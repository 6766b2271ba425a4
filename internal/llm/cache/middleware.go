package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahrav/contract-iq/internal/llm/transport"
)

// Config controls cache middleware behavior.
type Config struct {
	// TTL is how long entries remain valid.
	TTL time.Duration

	// Store is the cache backend. Defaults to an in-memory store.
	Store Store
}

// NewMiddleware returns middleware that serves repeated identical requests
// from the cache. Only successful responses are stored; failures always
// reach the provider again. Backend errors degrade to a cache miss.
func NewMiddleware(cfg Config) transport.Middleware {
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	logger := slog.Default().With("component", "llm.cache")

	return func(next transport.Handler) transport.Handler {
		return transport.HandlerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
			key := req.CacheKey()

			if resp, ok, err := store.Get(ctx, key); err != nil {
				logger.Warn("cache lookup failed",
					"provider", req.Provider, "error", err)
			} else if ok {
				resp.Cached = true
				return resp, nil
			}

			resp, err := next.Handle(ctx, req)
			if err != nil {
				return nil, err
			}

			if err := store.Set(ctx, key, resp, ttl); err != nil {
				logger.Warn("cache store failed",
					"provider", req.Provider, "error", err)
			}
			return resp, nil
		})
	}
}
