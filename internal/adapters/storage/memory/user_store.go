package memory

import (
	"context"
	"sync"

	"github.com/leggal/leggal-agent/internal/domain"
)

// UserStore keeps users in process memory. Used by tests and local runs.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[domain.UserID]*domain.User
	byEmail map[string]*domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[domain.UserID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (s *UserStore) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return domain.ErrEmailTaken
	}

	u := *user
	s.byID[u.ID] = &u
	s.byEmail[u.Email] = &u
	return nil
}

func (s *UserStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (s *UserStore) GetUserByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u := *user
	return &u, nil
}
