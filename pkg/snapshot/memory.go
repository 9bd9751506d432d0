package snapshot

import (
	"context"
	"sync"
)

// Memory keeps snapshots in process memory. It backs tests and deployments
// where no durable storage is configured.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory builds an empty in-memory snapshot store.
func NewMemory() *Memory {
	return &Memory{values: map[string][]byte{}}
}

// Load returns the stored value, or (nil, nil) when the key is absent.
func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Save overwrites the stored value for the key.
func (m *Memory) Save(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = stored
	return nil
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error {
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
