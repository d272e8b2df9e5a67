// Package persist stores the task/project collection as a single record in a
// durable key-value store and reads it back defensively.
package persist

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned by Backend.Get when the key has never been written.
var ErrNotFound = errors.New("persist: key not found")

// Backend is a durable key-value store. Put overwrites the whole value.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Close() error
}

// Open returns the backend named by kind ("file", "sqlite" or "memory")
// rooted at dir.
func Open(kind, dir string) (Backend, error) {
	switch kind {
	case "", "file":
		return NewFileBackend(dir)
	case "sqlite":
		return NewSQLiteBackend(SQLitePath(dir))
	case "memory":
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}

// MemoryBackend keeps values in process memory. FailWrites makes every Put
// fail, which is how storage quota errors are simulated.
type MemoryBackend struct {
	mu         sync.Mutex
	values     map[string][]byte
	FailWrites error
	writes     int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

func (m *MemoryBackend) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryBackend) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.values[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}

// Writes counts successful Puts.
func (m *MemoryBackend) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemoryBackend) Close() error { return nil }
