package payment

import (
	"context"
	"sync"
	"time"
)

// Store keeps payment sessions keyed by id. Get never auto-expires a
// record: expiry is a predicate the caller checks, and sessions are kept
// for after-the-fact inspection even once unusable.
//
// Transition is the single mutation primitive: an atomic compare-and-set
// on Status so that the first terminal transition wins under concurrent
// verify/complete calls.
type Store interface {
	Put(ctx context.Context, sess *Session) error
	Get(ctx context.Context, id string) (*Session, error)

	// Transition swaps Status from -> to if and only if the stored status
	// still equals from. It returns the session as stored after the call
	// and whether this call performed the swap. Moving an expired-pending
	// session to a terminal status fails with ErrSessionExpired.
	Transition(ctx context.Context, id string, from, to Status) (*Session, bool, error)
}

// MemoryStore is the default single-process Store. A plain mutex guards
// the map; every read hands out a copy so callers never share session
// memory with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Put(_ context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return ErrSessionNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *sess
	m.sessions[sess.ID] = &cp
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	cp := *sess
	return &cp, nil
}

func (m *MemoryStore) Transition(_ context.Context, id string, from, to Status) (*Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, false, ErrSessionNotFound
	}

	if sess.Status != from {
		// Another caller already moved it; terminality is idempotent.
		cp := *sess
		return &cp, false, nil
	}

	if sess.Expired(time.Now()) {
		cp := *sess
		return &cp, false, ErrSessionExpired
	}

	sess.Status = to
	cp := *sess
	return &cp, true, nil
}
