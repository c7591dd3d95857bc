package storage

import "sync"

// MemoryBackend keeps values in process memory.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailWrites makes Write and Remove return the given error when set.
	FailWrites error
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (b *MemoryBackend) Read(key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (b *MemoryBackend) Write(key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailWrites != nil {
		return b.FailWrites
	}
	b.data[key] = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) Remove(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailWrites != nil {
		return b.FailWrites
	}
	delete(b.data, key)
	return nil
}

func (b *MemoryBackend) Close() error { return nil }
