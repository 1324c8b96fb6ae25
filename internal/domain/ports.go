package domain

import (
	"context"
	"errors"
)

// Sentinel errors shared by all store implementations.
var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// LLMClient defines how the core talks to a language-model backend.
// Implementations may fail with transport or quota errors; callers treat any
// such error identically and degrade to a deterministic fallback.
type LLMClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int32) (string, error)
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id UserID) (*User, error)
}

// TaskStore persists tasks.
type TaskStore interface {
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, userID UserID, id TaskID) (*Task, error)
	ListTasks(ctx context.Context, userID UserID, filters TaskFilters) ([]*Task, error)
	ListRecentTasks(ctx context.Context, userID UserID, limit int) ([]*Task, error)
	UpdateTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, userID UserID, id TaskID) error
	TaskStats(ctx context.Context, userID UserID) (*TaskStats, error)
}

// MessageStore persists the conversation log.
type MessageStore interface {
	AppendMessage(ctx context.Context, msg *ChatMessage) error
	// ListRecentMessages returns up to limit messages, newest first.
	ListRecentMessages(ctx context.Context, userID UserID, limit int) ([]*ChatMessage, error)
}
