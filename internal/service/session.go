package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Svacinar/not-stonks-sub000/internal/bank"
)

// importSession holds parsed-but-uncommitted records awaiting conversion
// rates. It lives only in memory and only until commit or TTL expiry.
type importSession struct {
	ID         string
	Records    []bank.Record
	Currencies []string // detected non-base currencies, sorted
	ByBank     map[string]int
	ByCurrency map[string]int
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// SessionStore is an in-memory TTL store for import sessions. It is safe for
// concurrent use; concurrent imports get independent sessions. Expired
// entries are evicted by a janitor goroutine and additionally filtered on
// lookup, so a commit between sweeps never sees a stale batch.
type SessionStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*importSession
	stop     chan struct{}
	stopOnce sync.Once
}

const janitorInterval = time.Minute

// NewSessionStore creates a store whose sessions expire after ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	s := &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]*importSession),
		stop:     make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Put stores the session under a fresh id and returns it.
func (s *SessionStore) Put(sess importSession) string {
	now := time.Now().UTC()
	sess.ID = uuid.NewString()
	sess.CreatedAt = now
	sess.ExpiresAt = now.Add(s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := sess
	s.sessions[stored.ID] = &stored
	return stored.ID
}

// Get returns a copy of the session, or nil when absent or expired.
func (s *SessionStore) Get(id string) *importSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok || time.Now().UTC().After(sess.ExpiresAt) {
		return nil
	}
	out := *sess
	return &out
}

// Delete removes the session. Called after a successful commit; a failed
// commit keeps the session so the caller can retry with corrected rates.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports live (non-expired) sessions.
func (s *SessionStore) Len() int {
	now := time.Now().UTC()
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, sess := range s.sessions {
		if !now.After(sess.ExpiresAt) {
			n++
		}
	}
	return n
}

// Close stops the janitor.
func (s *SessionStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *SessionStore) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *SessionStore) evictExpired() {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
}
