package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/contract-iq/internal/llm/transport"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("miss on empty store", func(t *testing.T) {
		_, ok, err := store.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("round trip returns a copy", func(t *testing.T) {
		original := &transport.Response{Content: "hello", Provider: "openai"}
		require.NoError(t, store.Set(ctx, "k1", original, time.Minute))

		got, ok, err := store.Get(ctx, "k1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "hello", got.Content)

		got.Content = "mutated"
		again, ok, err := store.Get(ctx, "k1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "hello", again.Content)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k2", &transport.Response{Content: "x"}, time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		_, ok, err := store.Get(ctx, "k2")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

// countingHandler counts how many times the downstream pipeline runs.
type countingHandler struct {
	calls int
	resp  *transport.Response
	err   error
}

func (h *countingHandler) Handle(context.Context, *transport.Request) (*transport.Response, error) {
	h.calls++
	if h.err != nil {
		return nil, h.err
	}
	resp := *h.resp
	return &resp, nil
}

// failingStore simulates a broken backend; lookups and writes both error.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (*transport.Response, bool, error) {
	return nil, false, errors.New("backend down")
}

func (failingStore) Set(context.Context, string, *transport.Response, time.Duration) error {
	return errors.New("backend down")
}

func TestCacheMiddleware(t *testing.T) {
	ctx := context.Background()
	req := &transport.Request{Provider: "openai", Model: "gpt-4o", Prompt: "analyze this"}

	t.Run("second identical request served from cache", func(t *testing.T) {
		next := &countingHandler{resp: &transport.Response{Content: "result", Provider: "openai"}}
		handler := NewMiddleware(Config{})(next)

		first, err := handler.Handle(ctx, req)
		require.NoError(t, err)
		assert.False(t, first.Cached)

		second, err := handler.Handle(ctx, req)
		require.NoError(t, err)
		assert.True(t, second.Cached)
		assert.Equal(t, "result", second.Content)
		assert.Equal(t, 1, next.calls)
	})

	t.Run("different prompt misses", func(t *testing.T) {
		next := &countingHandler{resp: &transport.Response{Content: "result"}}
		handler := NewMiddleware(Config{})(next)

		_, err := handler.Handle(ctx, req)
		require.NoError(t, err)

		other := *req
		other.Prompt = "analyze that"
		_, err = handler.Handle(ctx, &other)
		require.NoError(t, err)
		assert.Equal(t, 2, next.calls)
	})

	t.Run("failures are not cached", func(t *testing.T) {
		next := &countingHandler{err: errors.New("provider down")}
		handler := NewMiddleware(Config{})(next)

		_, err := handler.Handle(ctx, req)
		require.Error(t, err)
		_, err = handler.Handle(ctx, req)
		require.Error(t, err)
		assert.Equal(t, 2, next.calls)
	})

	t.Run("backend errors degrade to pass-through", func(t *testing.T) {
		next := &countingHandler{resp: &transport.Response{Content: "result"}}
		handler := NewMiddleware(Config{Store: failingStore{}})(next)

		resp, err := handler.Handle(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "result", resp.Content)

		resp, err = handler.Handle(ctx, req)
		require.NoError(t, err)
		assert.False(t, resp.Cached)
		assert.Equal(t, 2, next.calls)
	})

	t.Run("entries expire after the TTL", func(t *testing.T) {
		next := &countingHandler{resp: &transport.Response{Content: "result"}}
		handler := NewMiddleware(Config{TTL: 5 * time.Millisecond})(next)

		_, err := handler.Handle(ctx, req)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)

		resp, err := handler.Handle(ctx, req)
		require.NoError(t, err)
		assert.False(t, resp.Cached)
		assert.Equal(t, 2, next.calls)
	})
}
