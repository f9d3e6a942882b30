// Package session holds the signed-in client state. It is passed explicitly
// to whatever needs the token; nothing reads it from ambient storage.
package session

import (
	"context"
	"sync"

	"github.com/joshua-takyi/jocky/internal/models"
)

const (
	TokenKey = "jocky_token"
	UserKey  = "jocky_user"
)

// Store persists a session between runs.
type Store interface {
	Load(ctx context.Context) (token string, user *models.User, err error)
	Save(ctx context.Context, token string, user *models.User) error
	Clear(ctx context.Context) error
}

type Session struct {
	mu    sync.RWMutex
	token string
	user  *models.User
}

func New() *Session {
	return &Session{}
}

// Restore builds a session from whatever the store holds. An empty store
// gives a signed-out session.
func Restore(ctx context.Context, store Store) (*Session, error) {
	s := New()
	token, user, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if token != "" {
		s.Set(token, user)
	}
	return s, nil
}

func (s *Session) Set(token string, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if user != nil {
		u := *user
		s.user = &u
	} else {
		s.user = nil
	}
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the user snapshot, or nil when signed out.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) SignedIn() bool {
	return s.Token() != ""
}

// MemoryStore keeps state in process only.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	user  *models.User
}

func (m *MemoryStore) Load(ctx context.Context) (string, *models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.user, nil
}

func (m *MemoryStore) Save(ctx context.Context, token string, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.user = token, user
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.user = "", nil
	return nil
}
