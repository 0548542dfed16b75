package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MemoryCmdable is an in-process stand-in for the redis commands the client
// uses. It backs tests and SAMUCHA_USE_SQLITE local runs without a redis server.
type MemoryCmdable struct {
	mu   sync.Mutex
	data map[string]string
	ttl  map[string]time.Duration
	incr map[string]int64
}

// NewMemoryCmdable returns an empty in-memory store.
func NewMemoryCmdable() *MemoryCmdable {
	return &MemoryCmdable{
		data: make(map[string]string),
		ttl:  make(map[string]time.Duration),
		incr: make(map[string]int64),
	}
}

// NewWithCmdable wraps an arbitrary command implementation, usually a MemoryCmdable.
func NewWithCmdable(store *MemoryCmdable) *Client {
	return &Client{store: store}
}

// TTL reports the expiration recorded for key by the last Set.
func (m *MemoryCmdable) TTL(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ttl[key]
}

func (m *MemoryCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *MemoryCmdable) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	default:
		m.data[key] = fmt.Sprint(v)
	}
	m.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *MemoryCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *MemoryCmdable) Incr(_ context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *MemoryCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			removed++
		}
		delete(m.data, key)
		delete(m.ttl, key)
	}
	return redis.NewIntResult(removed, nil)
}
