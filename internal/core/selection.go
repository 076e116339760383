package core

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/JonMunkholm/dashview/internal/table"
)

var (
	// ErrSessionNotFound is returned for unknown or expired selection sessions.
	ErrSessionNotFound = errors.New("selection session not found")

	// ErrSelectionMode is returned for modes other than single and multiple.
	ErrSelectionMode = errors.New("invalid selection mode")
)

// SelectionSession is a server-held selection for one open grid.
type SelectionSession struct {
	ID        string              `json:"id"`
	Resource  string              `json:"resource"`
	Mode      table.SelectionMode `json:"mode"`
	Selection table.Selection     `json:"keys"`
	Count     int                 `json:"count"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// SelectionStore keeps sessions until they sit idle for the TTL. When full,
// the least recently used session is dropped.
type SelectionStore struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, SelectionSession]
}

// NewSelectionStore holds up to size sessions, each living ttl past its last use.
func NewSelectionStore(size int, ttl time.Duration) *SelectionStore {
	return &SelectionStore{
		sessions: expirable.NewLRU[string, SelectionSession](size, nil, ttl),
	}
}

// Create starts an empty session.
func (s *SelectionStore) Create(resource string, mode table.SelectionMode) (SelectionSession, error) {
	if mode == "" {
		mode = table.SelectMultiple
	}
	if mode != table.SelectSingle && mode != table.SelectMultiple {
		return SelectionSession{}, ErrSelectionMode
	}

	sess := SelectionSession{
		ID:        uuid.NewString(),
		Resource:  resource,
		Mode:      mode,
		Selection: table.NewSelection(),
		UpdatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions.Add(sess.ID, sess)
	s.mu.Unlock()

	sess.Selection = table.NewSelection()
	return sess, nil
}

// Get returns a session and refreshes its TTL.
func (s *SelectionStore) Get(id string) (SelectionSession, error) {
	return s.update(id, nil)
}

// Toggle flips key according to the session's mode.
func (s *SelectionStore) Toggle(id string, key table.Key) (SelectionSession, error) {
	return s.update(id, func(sess SelectionSession) table.Selection {
		return table.ToggleSelection(sess.Selection, key, sess.Mode)
	})
}

// SetVisible checks or unchecks every key in visible. Keys outside visible
// keep their state.
func (s *SelectionStore) SetVisible(id string, visible []table.Key, checked bool) (SelectionSession, error) {
	return s.update(id, func(sess SelectionSession) table.Selection {
		return table.SelectAllVisible(sess.Selection, visible, checked)
	})
}

// Clear empties a session.
func (s *SelectionStore) Clear(id string) (SelectionSession, error) {
	return s.update(id, func(SelectionSession) table.Selection {
		return table.NewSelection()
	})
}

// Delete ends a session.
func (s *SelectionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sessions.Remove(id) {
		return ErrSessionNotFound
	}
	return nil
}

// Len returns the number of live sessions.
func (s *SelectionStore) Len() int {
	return s.sessions.Len()
}

// update applies fn under the store lock and re-adds the session, which also
// resets its expiry. A nil fn only touches the session.
func (s *SelectionStore) update(id string, fn func(SelectionSession) table.Selection) (SelectionSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions.Get(id)
	if !ok {
		return SelectionSession{}, ErrSessionNotFound
	}
	if fn != nil {
		sess.Selection = fn(sess)
		sess.UpdatedAt = time.Now().UTC()
	}
	sess.Count = sess.Selection.Len()
	s.sessions.Add(id, sess)

	// Callers get their own copy.
	sess.Selection = sess.Selection.Clone()
	return sess, nil
}
