package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rogersnm/todo/internal/model"
)

// ErrNoRecord is returned by a Backend when the key has never been written.
var ErrNoRecord = errors.New("no record")

// Backend is a key-value medium holding whole records. Put replaces the
// previous value atomically: on failure the old value stays readable.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
	Delete(key string) error
}

// MemoryBackend keeps records in memory. A positive Capacity bounds the total
// number of stored bytes.
type MemoryBackend struct {
	Capacity int

	mu      sync.Mutex
	records map[string][]byte
}

var _ Backend = (*MemoryBackend)(nil)

func NewMemory(capacity int) *MemoryBackend {
	return &MemoryBackend{Capacity: capacity, records: make(map[string][]byte)}
}

func (m *MemoryBackend) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.records[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNoRecord)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryBackend) Put(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records == nil {
		m.records = make(map[string][]byte)
	}
	if m.Capacity > 0 {
		used := len(data)
		for k, v := range m.records {
			if k != key {
				used += len(v)
			}
		}
		if used > m.Capacity {
			return fmt.Errorf("writing %s (%d bytes): %w", key, len(data), model.ErrQuotaExceeded)
		}
	}
	m.records[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryBackend) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}
