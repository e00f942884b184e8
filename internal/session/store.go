// ABOUTME: Session store holding the auth token and authenticated flag
// ABOUTME: Injected into controllers; rehydrated once at boot and persisted on every write

package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/models"
)

// StorageKey is the fixed key the session slice is persisted under
const StorageKey = "persist:auth"

// Initial is the session before login or after a reset
var Initial = models.Session{Authenticated: false, Token: ""}

// Store owns the Session. All writes go through SetAuthenticated,
// SetToken, SignIn and Reset.
type Store struct {
	storage Storage

	mu       sync.RWMutex
	session  models.Session
	hydrated bool
	once     sync.Once
	loadErr  error
}

// New creates a store with initial values; call Rehydrate before use
func New(storage Storage) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	return &Store{
		storage: storage,
		session: Initial,
	}
}

// Rehydrate loads the persisted session. Only the first call reads storage.
// A missing or corrupt entry leaves the initial values in place.
func (s *Store) Rehydrate() error {
	s.once.Do(func() {
		if s.Hydrated() {
			// a write or reset already replaced the persisted value
			return
		}
		data, err := s.storage.Load(StorageKey)
		if err != nil {
			s.loadErr = fmt.Errorf("failed to load session: %w", err)
			s.markHydrated(Initial)
			return
		}
		if data == nil {
			s.markHydrated(Initial)
			return
		}

		var persisted models.Session
		if err := json.Unmarshal(data, &persisted); err != nil {
			// Invalid JSON, start fresh
			slog.Warn("Discarding unreadable session", "key", StorageKey, "error", err)
			s.markHydrated(Initial)
			return
		}
		s.markHydrated(persisted)
	})
	return s.loadErr
}

func (s *Store) markHydrated(sess models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sess
	s.hydrated = true
}

// Hydrated reports whether Rehydrate has completed
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Session returns the current session. Before rehydration this is Initial.
func (s *Store) Session() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hydrated {
		return Initial
	}
	return s.session
}

// Token implements client.TokenSource
func (s *Store) Token() string {
	return s.Session().Token
}

// SetAuthenticated updates and persists the authenticated flag
func (s *Store) SetAuthenticated(authenticated bool) error {
	return s.update(func(sess *models.Session) {
		sess.Authenticated = authenticated
	})
}

// SetToken updates and persists the token
func (s *Store) SetToken(token string) error {
	return s.update(func(sess *models.Session) {
		sess.Token = token
	})
}

// SignIn marks the session authenticated and stores token in one write.
// An empty token keeps the current one.
func (s *Store) SignIn(token string) error {
	return s.update(func(sess *models.Session) {
		if token != "" {
			sess.Token = token
		}
		sess.Authenticated = true
	})
}

// Reset clears the persisted entry and returns the store to Initial
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Remove(StorageKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.session = Initial
	s.hydrated = true
	slog.Debug("Session reset")
	return nil
}

// update applies fn and persists the result; memory only changes if the write succeeds
func (s *Store) update(fn func(*models.Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.session
	if !s.hydrated {
		next = Initial
	}
	fn(&next)

	data, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := s.storage.Save(StorageKey, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.session = next
	s.hydrated = true
	return nil
}
