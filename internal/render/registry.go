package render

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Factory opens a surface.
type Factory func(ctx context.Context, opts Options) (Surface, error)

// BackendInfo describes a registered backend.
type BackendInfo struct {
	Name        string
	Description string
}

type backend struct {
	info    BackendInfo
	factory Factory
}

var (
	backends = make(map[string]backend)
	mu       sync.RWMutex
)

// Register adds a backend. Backends register themselves from init().
// Panics if the name is already taken.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := backends[name]; exists {
		panic(fmt.Sprintf("render: backend %q already registered", name))
	}
	backends[name] = backend{
		info:    BackendInfo{Name: name, Description: description},
		factory: f,
	}
}

// List returns every registered backend, sorted by name.
func List() []BackendInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]BackendInfo, 0, len(backends))
	for _, b := range backends {
		result = append(result, b.info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Open launches a surface from the named backend.
func Open(ctx context.Context, name string, opts Options) (Surface, error) {
	mu.RLock()
	b, ok := backends[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownBackend, name)
	}
	s, err := b.factory(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("render: launch %s: %w", name, err)
	}
	return s, nil
}

// Exists reports whether a backend is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := backends[name]
	return ok
}
