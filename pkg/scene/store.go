package scene

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrSceneNotFound is returned when a scene name does not resolve.
var ErrSceneNotFound = errors.New("scene not found")

// Store is the scene library backend.
type Store interface {
	// Get retrieves a scene by name. Returns ErrSceneNotFound for unknown
	// names.
	Get(ctx context.Context, name string) (*Scene, error)

	// Put stores a scene, replacing any previous definition with the name.
	Put(ctx context.Context, s *Scene) error

	// List returns all scenes sorted by name.
	List(ctx context.Context) ([]*Scene, error)
}

// =============================================================================
// Memory Store
// =============================================================================

// MemoryStore is an in-memory scene library.
type MemoryStore struct {
	mu     sync.RWMutex
	scenes map[string]*Scene
}

// NewMemoryStore creates a store seeded with the given scenes.
func NewMemoryStore(seed ...*Scene) *MemoryStore {
	s := &MemoryStore{scenes: make(map[string]*Scene, len(seed))}
	for _, sc := range seed {
		s.scenes[sc.Name] = sc
	}
	return s
}

func (s *MemoryStore) Get(ctx context.Context, name string) (*Scene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.scenes[name]
	if !ok {
		return nil, ErrSceneNotFound
	}
	return sc, nil
}

func (s *MemoryStore) Put(ctx context.Context, sc *Scene) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scenes[sc.Name] = sc
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Scene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Scene, 0, len(s.scenes))
	for _, sc := range s.scenes {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
