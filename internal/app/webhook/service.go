package webhook

import (
	"context"
	"errors"
	"strings"

	"github.com/leggal/leggal-agent/internal/app/tasks"
	"github.com/leggal/leggal-agent/internal/domain"
	"github.com/leggal/leggal-agent/internal/observability"
)

// ErrEmptyMessage rejects webhook payloads without usable text.
var ErrEmptyMessage = errors.New("message must not be empty")

// titleLimit is where inbound messages get cut when used as a title.
const titleLimit = 100

// Service ingests messages from external channels and turns every one of
// them into a task, without the chat pipeline's classification step.
type Service struct {
	tasks *tasks.Service
}

func NewService(taskSvc *tasks.Service) *Service {
	return &Service{tasks: taskSvc}
}

// Ingest creates a task from an external message. The message doubles as the
// description; the title is the message cut at 100 runes.
func (s *Service) Ingest(ctx context.Context, userID domain.UserID, message string) (*domain.Task, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	task, err := s.tasks.Create(ctx, userID, tasks.CreateInput{
		Title:       webhookTitle(message),
		Description: message,
		RawMessage:  message,
		Priority:    domain.PriorityMedium,
		Status:      domain.StatusPending,
		Source:      "webhook",
	})
	if err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info("webhook task created",
		"user_id", userID, "task_id", task.ID)
	return task, nil
}

func webhookTitle(message string) string {
	runes := []rune(message)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit]) + "..."
	}
	return message
}
