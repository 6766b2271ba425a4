// Package cache provides success-only response caching for LLM calls,
// keyed by a deterministic hash of the request's model parameters and
// prompt. Cache hits are marked on the response so attribution can report
// cached results distinctly from fresh provider calls.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ahrav/contract-iq/internal/llm/transport"
)

// Store abstracts the cache backend. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the cached response and true on a hit.
	Get(ctx context.Context, key string) (*transport.Response, bool, error)

	// Set stores a response under the key with the given TTL.
	Set(ctx context.Context, key string, resp *transport.Response, ttl time.Duration) error
}

// memoryStore is the default per-process cache backend.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	resp      transport.Response
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory cache store.
func NewMemoryStore() Store {
	return &memoryStore{entries: make(map[string]memoryEntry)}
}

func (s *memoryStore) Get(_ context.Context, key string) (*transport.Response, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false, nil
	}
	resp := entry.resp
	return &resp, true, nil
}

func (s *memoryStore) Set(_ context.Context, key string, resp *transport.Response, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{resp: *resp, expiresAt: time.Now().Add(ttl)}
	return nil
}

// redisStore backs the cache with Redis for cross-instance sharing.
type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed cache store.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client, prefix: "llmcache:"}
}

func (s *redisStore) Get(ctx context.Context, key string) (*transport.Response, bool, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis cache get: %w", err)
	}
	var resp transport.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		// A corrupt entry is a miss, not a failure.
		return nil, false, nil
	}
	return &resp, true, nil
}

func (s *redisStore) Set(ctx context.Context, key string, resp *transport.Response, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("redis cache marshal: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis cache set: %w", err)
	}
	return nil
}
