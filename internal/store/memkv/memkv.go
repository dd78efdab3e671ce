// Package memkv is an in-memory KV used by tests and as a throwaway backend.
package memkv

import (
	"context"
	"sync"

	"github.com/edakseva/grievance-server/internal/model"
	"github.com/edakseva/grievance-server/internal/store/kv"
)

type memKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New returns an empty in-memory KV.
func New() kv.KV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *memKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memKV) HealthPing(context.Context) error { return nil }
