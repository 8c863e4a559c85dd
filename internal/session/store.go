package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is a thread-safe in-memory session registry with idle eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	log      *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewStore(ttl time.Duration, log *zap.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		log:      log,
	}
}

// Create registers a new empty session.
func (s *Store) Create() *Session {
	sess := New(uuid.NewString())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns the session with id, or nil.
func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[id]
	if sess != nil {
		sess.touch()
	}
	return sess
}

// Delete drops a session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Cleanup(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastActive()) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Start launches the eviction janitor.
func (s *Store) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := s.Cleanup(now); n > 0 {
					s.log.Info("evicted idle sessions", zap.Int("count", n), zap.Int("remaining", s.Len()))
				}
			}
		}
	}()
}

// Stop halts the janitor and waits for it to exit.
func (s *Store) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}
