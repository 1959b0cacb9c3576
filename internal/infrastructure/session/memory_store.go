package session

import (
	"context"
	"sync"
	"time"

	"github.com/charlieverse/platform/internal/api/metrics"
)

// MemoryStore keeps sessions in a process map. Used when Redis is not
// configured; sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
	ttl      time.Duration
	now      func() time.Time
}

type memorySession struct {
	principal Principal
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		sessions: make(map[string]memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// SetClock overrides the store's clock. Intended for tests.
func (s *MemoryStore) SetClock(now func() time.Time) { s.now = now }

func (s *MemoryStore) Create(_ context.Context, p Principal) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := newToken()
	s.sessions[token] = memorySession{principal: p, expiresAt: s.now().Add(s.ttl)}
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	return token, nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (*Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, ErrNoSession
	}
	if s.now().After(sess.expiresAt) {
		delete(s.sessions, token)
		metrics.SessionsActive.Set(float64(len(s.sessions)))
		return nil, ErrNoSession
	}
	// Sliding expiry, mirroring the Redis store.
	sess.expiresAt = s.now().Add(s.ttl)
	s.sessions[token] = sess
	p := sess.principal
	return &p, nil
}

func (s *MemoryStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	return nil
}
