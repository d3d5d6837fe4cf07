// Package session tracks the scene server's connected (and recently
// disconnected) clients.
//
// Each accepted connection gets a session record: who connected, which scene
// they are watching, and when they were last seen. Records live behind the
// [Store] interface with two backends:
//   - memory: single-instance servers, tests
//   - redis: multi-instance deployments with shared session state
//
// Sessions expire on a TTL refreshed by [Store.Touch]; a client that
// disconnects simply stops touching its record and ages out.
//
// # Usage
//
//	store := session.NewMemoryStore()
//
//	sess := session.New("demo", peer.Addr(), session.DefaultTTL)
//	if err := store.Put(ctx, sess); err != nil {
//	    return err
//	}
//	defer store.Delete(ctx, sess.ID)
package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session id does not resolve to a live
// record. Expired records count as not found.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is the default session lifetime between touches.
const DefaultTTL = 5 * time.Minute

// Session is one client's server-side record.
type Session struct {
	ID         string    `json:"id"`
	Scene      string    `json:"scene"`
	RemoteAddr string    `json:"remote_addr"`
	Client     string    `json:"client,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// IsExpired reports whether the session has aged out.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// New creates a session record with a fresh random id.
func New(scene, remoteAddr string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:         uuid.NewString(),
		Scene:      scene,
		RemoteAddr: remoteAddr,
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  now.Add(ttl),
	}
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by id. Returns ErrNotFound for unknown or
	// expired ids.
	Get(ctx context.Context, id string) (*Session, error)

	// Put stores a session, overwriting any previous record with the id.
	Put(ctx context.Context, sess *Session) error

	// Touch refreshes the session's last-seen time and pushes its expiry
	// ttl into the future. Returns ErrNotFound for unknown or expired ids.
	Touch(ctx context.Context, id string, ttl time.Duration) error

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns all live sessions sorted by creation time.
	List(ctx context.Context) ([]*Session, error)

	// Cleanup removes expired sessions. May be a no-op for backends with
	// native expiry.
	Cleanup(ctx context.Context) error
}

// =============================================================================
// Memory Store
// =============================================================================

// MemoryStore is an in-memory session store for single-instance servers and
// tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok || sess.IsExpired() {
		return nil, ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *MemoryStore) Put(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sess
	s.sessions[sess.ID] = &cp
	return nil
}

func (s *MemoryStore) Touch(ctx context.Context, id string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.IsExpired() {
		return ErrNotFound
	}
	now := time.Now()
	sess.LastSeenAt = now
	sess.ExpiresAt = now.Add(ttl)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if sess.IsExpired() {
			continue
		}
		cp := *sess
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if sess.IsExpired() {
			delete(s.sessions, id)
		}
	}
	return nil
}

var _ Store = (*MemoryStore)(nil)
