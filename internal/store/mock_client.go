package store

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockRedisClient is an in-memory RedisClient for tests and for running
// without a Redis server. TTLs are recorded but never expire.
type MockRedisClient struct {
	mu   sync.RWMutex
	data map[string][]byte
	ttl  map[string]time.Duration
}

// NewMockRedisClient returns an empty mock.
func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		data: make(map[string][]byte),
		ttl:  make(map[string]time.Duration),
	}
}

// Get implements RedisClient.
func (m *MockRedisClient) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return append([]byte(nil), v...), nil
}

// Set implements RedisClient.
func (m *MockRedisClient) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	m.ttl[key] = ttl
	return nil
}

// TTL returns the expiry the key was last set with.
func (m *MockRedisClient) TTL(key string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ttl[key]
}

// Del implements RedisClient.
func (m *MockRedisClient) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
		delete(m.ttl, k)
	}
	return nil
}

// Keys implements RedisClient with glob matching close enough to Redis
// for the patterns the store uses. Unlike path.Match, '*' also matches
// '/', as zone names in keys contain it.
func (m *MockRedisClient) Keys(_ context.Context, pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for k := range m.data {
		if ok, err := path.Match(unslash(pattern), unslash(k)); err != nil {
			return nil, err
		} else if ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

func unslash(s string) string {
	return strings.ReplaceAll(s, "/", "\x00")
}

// Ping implements RedisClient.
func (m *MockRedisClient) Ping(context.Context) error { return nil }
