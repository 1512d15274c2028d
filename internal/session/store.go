// Package session keeps the two-stage text state of each editor: a draft
// that changes on every edit and the committed text that generation reads.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Session is a snapshot; mutating it does not affect the store.
type Session struct {
	ID         string    `json:"id"`
	Draft      string    `json:"draft"`
	Committed  string    `json:"committed"`
	Revision   int       `json:"revision"`
	CreatedAt  time.Time `json:"createdAt"`
	LastAccess time.Time `json:"lastAccess"`
}

// Pending reports whether the draft differs from the committed text.
func (s Session) Pending() bool {
	return s.Draft != s.Committed
}

type Store struct {
	mu     sync.RWMutex
	items  map[string]*Session
	hits   int
	misses int
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		items: make(map[string]*Session),
		now:   time.Now,
	}
}

func (s *Store) Create() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	item := &Session{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		LastAccess: now,
	}
	s.items[item.ID] = item
	return *item
}

// SetDraft replaces the draft text. The committed text is untouched.
func (s *Store) SetDraft(id, text string) (Session, error) {
	return s.update(id, func(item *Session) {
		item.Draft = text
	})
}

// Commit promotes the draft to the committed text and bumps the revision.
func (s *Store) Commit(id string) (Session, error) {
	return s.update(id, func(item *Session) {
		item.Committed = item.Draft
		item.Revision++
	})
}

func (s *Store) update(id string, fn func(*Session)) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		s.misses++
		return Session{}, ErrNotFound
	}
	s.hits++
	fn(item)
	item.LastAccess = s.now()
	return *item, nil
}

func (s *Store) Get(id string) (Session, error) {
	return s.update(id, func(*Session) {})
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// Prune drops sessions not accessed within ttl and returns how many went.
func (s *Store) Prune(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	removed := 0
	for id, item := range s.items {
		if item.LastAccess.Before(cutoff) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) HitRate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.hits+s.misses > 0 {
		return float64(s.hits) / float64(s.hits+s.misses)
	}
	return 0.0
}
