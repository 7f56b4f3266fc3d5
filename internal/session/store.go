// Package session tracks uploaded files between the upload and validate
// requests. Each upload gets a uuid, a temp-file copy of the original bytes,
// and the decoded dataset kept in memory until validation consumes it or the
// TTL expires.
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kpoder/csvguard/internal/csvio"
)

// DefaultTTL is how long an unconsumed upload session survives.
var DefaultTTL = 30 * time.Minute

// Session is one uploaded file awaiting validation.
type Session struct {
	ID        string
	FileName  string
	Path      string
	Dataset   *csvio.Dataset
	CreatedAt time.Time
}

// Store holds active upload sessions. Safe for concurrent use.
type Store struct {
	dir string
	ttl time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates a store writing temp copies under dir, which is created
// when missing. ttl <= 0 selects DefaultTTL.
func NewStore(dir string, ttl time.Duration) (*Store, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "csvguard-uploads")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		dir:      dir,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}, nil
}

// Create registers a new session, persisting the raw upload bytes alongside
// the decoded dataset.
func (s *Store) Create(fileName string, content []byte, dataset *csvio.Dataset) (*Session, error) {
	id := uuid.New().String()
	path := filepath.Join(s.dir, id+".csv")

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return nil, fmt.Errorf("persist upload: %w", err)
	}

	sess := &Session{
		ID:        id,
		FileName:  fileName,
		Path:      path,
		Dataset:   dataset,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	return sess, nil
}

// Get returns the session for id when it exists and has not expired.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Since(sess.CreatedAt) > s.ttl {
		s.Delete(id)
		return nil, false
	}
	return sess, true
}

// Delete removes a session and its temp file.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		os.Remove(sess.Path)
	}
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Janitor evicts expired sessions until ctx is done. Run it in its own
// goroutine.
func (s *Store) Janitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *Store) evictExpired() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	var expired []*Session
	for id, sess := range s.sessions {
		if sess.CreatedAt.Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		os.Remove(sess.Path)
	}
}
