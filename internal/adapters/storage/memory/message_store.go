package memory

import (
	"context"
	"sync"

	"github.com/leggal/leggal-agent/internal/domain"
)

// MessageStore keeps chat messages in process memory, append order preserved.
type MessageStore struct {
	mu       sync.RWMutex
	messages []*domain.ChatMessage
}

func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

func (s *MessageStore) AppendMessage(_ context.Context, msg *domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := *msg
	s.messages = append(s.messages, &m)
	return nil
}

// ListRecentMessages returns up to limit of the user's messages, newest first.
func (s *MessageStore) ListRecentMessages(_ context.Context, userID domain.UserID, limit int) ([]*domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.ChatMessage, 0, limit)
	for i := len(s.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if s.messages[i].UserID != userID {
			continue
		}
		m := *s.messages[i]
		out = append(out, &m)
	}
	return out, nil
}
