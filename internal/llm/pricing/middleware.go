package pricing

import (
	"context"

	"github.com/ahrav/contract-iq/internal/llm/transport"
)

// NewMiddleware returns middleware that attaches an estimated cost to
// every successful response using the registry's rates. Pricing errors in
// fail-closed mode surface as request errors.
func NewMiddleware(registry *Registry) transport.Middleware {
	return func(next transport.Handler) transport.Handler {
		return transport.HandlerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
			resp, err := next.Handle(ctx, req)
			if err != nil {
				return nil, err
			}

			cost, err := registry.GetCost(resp.Provider, resp.Model, resp.Usage)
			if err != nil {
				return nil, err
			}
			resp.EstimatedCostMilliCents = cost
			return resp, nil
		})
	}
}
