package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/leggal/leggal-agent/internal/app/analyze"
	"github.com/leggal/leggal-agent/internal/app/classify"
	"github.com/leggal/leggal-agent/internal/app/tasks"
	"github.com/leggal/leggal-agent/internal/domain"
	"github.com/leggal/leggal-agent/internal/metrics"
	"github.com/leggal/leggal-agent/internal/observability"
)

const (
	answerTemperature = 0.8
	answerMaxTokens   = 800

	// recentTaskLimit bounds the context injected into the answer prompt.
	recentTaskLimit = 100
)

// Service orchestrates one conversation turn: it logs the inbound message,
// classifies it, branches to answer generation or task creation, and logs the
// outbound message.
type Service struct {
	classifier *classify.Classifier
	analyzer   *analyze.Analyzer
	llm        domain.LLMClient // nil = templated answers only
	users      domain.UserStore
	tasks      *tasks.Service
	messages   domain.MessageStore
	now        func() time.Time
}

func NewService(
	classifier *classify.Classifier,
	analyzer *analyze.Analyzer,
	llm domain.LLMClient,
	users domain.UserStore,
	taskSvc *tasks.Service,
	messages domain.MessageStore,
) *Service {
	return &Service{
		classifier: classifier,
		analyzer:   analyzer,
		llm:        llm,
		users:      users,
		tasks:      taskSvc,
		messages:   messages,
		now:        time.Now,
	}
}

// HandleTurn runs the full pipeline for one inbound message. Model failures
// degrade to deterministic fallbacks; persistence failures propagate, since
// there is no safe local recovery for a failed durable write.
func (s *Service) HandleTurn(ctx context.Context, userID domain.UserID, text string) (*domain.TurnResult, error) {
	log := observability.LoggerFromContext(ctx).With("user_id", userID)

	inbound := &domain.ChatMessage{
		ID:        domain.MessageID(uuid.New().String()),
		UserID:    userID,
		Text:      text,
		FromUser:  true,
		CreatedAt: s.now(),
	}
	if err := s.messages.AppendMessage(ctx, inbound); err != nil {
		log.Error("failed to append inbound message", "error", err)
		return nil, err
	}

	classification := s.classifier.Classify(text)
	metrics.MessagesClassified.WithLabelValues(string(classification)).Inc()
	log.Info("message classified", "classification", classification)

	var (
		result *domain.TurnResult
		err    error
	)
	if classification == domain.Conversational {
		result, err = s.answer(ctx, userID, text)
	} else {
		result, err = s.createTask(ctx, userID, text)
	}
	if err != nil {
		return nil, err
	}

	outbound := &domain.ChatMessage{
		ID:        domain.MessageID(uuid.New().String()),
		UserID:    userID,
		Text:      result.Content,
		FromUser:  false,
		CreatedAt: s.now(),
	}
	if result.Task != nil {
		taskID := result.Task.ID
		outbound.TaskID = &taskID
	}
	if err := s.messages.AppendMessage(ctx, outbound); err != nil {
		log.Error("failed to append outbound message", "error", err)
		return nil, err
	}

	log.Info("turn completed", "kind", result.Kind)
	return result, nil
}

// answer builds a reply grounded in the user's current task state.
func (s *Service) answer(ctx context.Context, userID domain.UserID, text string) (*domain.TurnResult, error) {
	recent, err := s.tasks.Recent(ctx, userID, recentTaskLimit)
	if err != nil {
		return nil, err
	}

	summary, stats := summarizeTasks(recent)

	content := ""
	if s.llm != nil {
		userName := ""
		if user, err := s.users.GetUserByID(ctx, userID); err == nil && user != nil {
			userName = user.Name
		}

		reply, err := s.llm.Complete(ctx, answerSystemPrompt(userName, summary, stats), text, answerTemperature, answerMaxTokens)
		if err != nil {
			observability.LoggerFromContext(ctx).Warn("answer generation failed, using template", "error", err)
			metrics.LLMFallbacks.WithLabelValues("answer").Inc()
		} else {
			content = reply
		}
	}
	if content == "" {
		content = fallbackAnswer(stats)
	}

	return &domain.TurnResult{Kind: domain.TurnAnswer, Content: content}, nil
}

// createTask analyzes the message once and persists a task built from the
// draft; the draft also lands in the ai_* shadow fields.
func (s *Service) createTask(ctx context.Context, userID domain.UserID, text string) (*domain.TurnResult, error) {
	draft := s.analyzer.Analyze(ctx, text)

	task, err := s.tasks.CreateFromDraft(ctx, userID, tasks.CreateInput{
		Title:       draft.Title,
		Description: draft.Summary,
		Priority:    draft.Priority,
		Status:      domain.StatusPending,
		RawMessage:  text,
		Source:      "chat",
	}, draft)
	if err != nil {
		return nil, err
	}

	return &domain.TurnResult{
		Kind:    domain.TurnTaskCreated,
		Content: confirmationMessage(draft),
		Task:    task,
	}, nil
}

// History returns the user's conversation log in chronological order. The
// store reads newest-first; the slice is reversed here for display.
func (s *Service) History(ctx context.Context, userID domain.UserID, limit int) ([]*domain.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}

	msgs, err := s.messages.ListRecentMessages(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
