// Package storage provides the key-value persistence used by the history
// store. Backends are interchangeable and selected by name at startup.
package storage

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound is returned by Read when nothing is stored under the key.
var ErrNotFound = errors.New("key not found")

// Backend stores opaque values by key. Each Write replaces the whole value or
// leaves the previous one untouched. Remove of a missing key succeeds.
type Backend interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Remove(key string) error
	Close() error
}

// Kind names a backend implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindBolt   Kind = "bolt"
	KindMemory Kind = "memory"
)

// Options configures backend construction.
type Options struct {
	// Dir is the directory holding backend files.
	Dir string
}

// Factory opens a backend.
type Factory func(opts Options) (Backend, error)

var (
	registryMu sync.RWMutex
	registry   = map[Kind]Factory{}
)

// Register makes a backend available to Open under kind.
func Register(kind Kind, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = factory
}

// Open creates the backend registered under kind.
func Open(kind Kind, opts Options) (Backend, error) {
	registryMu.RLock()
	factory, ok := registry[kind]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown store kind: %s", kind)
	}
	return factory(opts)
}

// Kinds returns the registered backend names, sorted.
func Kinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for kind := range registry {
		names = append(names, string(kind))
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(KindFile, func(opts Options) (Backend, error) { return NewFileBackend(opts.Dir) })
	Register(KindBolt, func(opts Options) (Backend, error) { return NewBoltBackend(opts.Dir) })
	Register(KindMemory, func(Options) (Backend, error) { return NewMemoryBackend(), nil })
}
