package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/leggal/leggal-agent/internal/app/analyze"
	"github.com/leggal/leggal-agent/internal/app/search"
	"github.com/leggal/leggal-agent/internal/domain"
	"github.com/leggal/leggal-agent/internal/metrics"
	"github.com/leggal/leggal-agent/internal/observability"
)

// Service owns task persistence plus the analyzer and ranker that enrich it.
type Service struct {
	store    domain.TaskStore
	analyzer *analyze.Analyzer
	ranker   *search.Ranker
	now      func() time.Time
}

func NewService(store domain.TaskStore, analyzer *analyze.Analyzer) *Service {
	return &Service{
		store:    store,
		analyzer: analyzer,
		ranker:   search.NewRanker(),
		now:      time.Now,
	}
}

// CreateInput carries the caller's explicit task fields. Zero values default
// to the analyzer's draft (title), MEDIUM priority and PENDING status.
type CreateInput struct {
	Title       string
	Description string
	RawMessage  string
	Priority    domain.Priority
	Status      domain.TaskStatus
	Source      string // "api", "chat" or "webhook", metrics label only
}

// Create persists a new task. The analyzer always runs on the raw message (or
// the title when no raw message exists) and its opinion lands in the ai_*
// shadow fields regardless of what the caller supplied explicitly.
func (s *Service) Create(ctx context.Context, userID domain.UserID, in CreateInput) (*domain.Task, error) {
	subject := in.RawMessage
	if subject == "" {
		subject = in.Title
	}
	draft := s.analyzer.Analyze(ctx, subject)

	return s.CreateFromDraft(ctx, userID, in, draft)
}

// CreateFromDraft persists a task using an already-computed draft, so callers
// that ran the analyzer themselves (the chat pipeline) don't analyze twice.
func (s *Service) CreateFromDraft(ctx context.Context, userID domain.UserID, in CreateInput, draft domain.TaskDraft) (*domain.Task, error) {
	now := s.now()

	title := in.Title
	if title == "" {
		title = draft.Title
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	status := in.Status
	if status == "" {
		status = domain.StatusPending
	}

	task := &domain.Task{
		ID:          domain.TaskID(uuid.New().String()),
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Priority:    priority,
		Status:      status,
		RawMessage:  in.RawMessage,
		AITitle:     draft.Title,
		AISummary:   draft.Summary,
		AIPriority:  draft.Priority,
		AIReasoning: draft.Reasoning,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to create task", "error", err)
		return nil, err
	}

	source := in.Source
	if source == "" {
		source = "api"
	}
	metrics.TasksCreated.WithLabelValues(source).Inc()

	return task, nil
}

// List returns the user's tasks, filtered and paginated, newest first.
func (s *Service) List(ctx context.Context, userID domain.UserID, filters domain.TaskFilters) ([]*domain.Task, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 50
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	return s.store.ListTasks(ctx, userID, filters)
}

func (s *Service) Get(ctx context.Context, userID domain.UserID, id domain.TaskID) (*domain.Task, error) {
	return s.store.GetTask(ctx, userID, id)
}

// UpdateInput carries a partial update; nil fields are left untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	Priority    *domain.Priority
	Status      *domain.TaskStatus
}

// Update applies the non-nil fields and persists. The ai_* shadow fields are
// audit data from creation time and are never rewritten here.
func (s *Service) Update(ctx context.Context, userID domain.UserID, id domain.TaskID, in UpdateInput) (*domain.Task, error) {
	task, err := s.store.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	task.UpdatedAt = s.now()

	if err := s.store.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) Delete(ctx context.Context, userID domain.UserID, id domain.TaskID) error {
	return s.store.DeleteTask(ctx, userID, id)
}

// Recent returns up to limit of the user's most recent tasks.
func (s *Service) Recent(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Task, error) {
	return s.store.ListRecentTasks(ctx, userID, limit)
}

func (s *Service) Stats(ctx context.Context, userID domain.UserID) (*domain.TaskStats, error) {
	return s.store.TaskStats(ctx, userID)
}

// Analyze runs the analyzer on a message without persisting anything, so
// callers can preview the draft a message would produce.
func (s *Service) Analyze(ctx context.Context, message string) domain.TaskDraft {
	return s.analyzer.Analyze(ctx, message)
}

// SearchSimilar ranks the user's whole task corpus against the query.
func (s *Service) SearchSimilar(ctx context.Context, userID domain.UserID, query string, limit int) ([]domain.SimilarityResult, error) {
	if limit <= 0 {
		limit = 5
	}

	corpus, err := s.store.ListTasks(ctx, userID, domain.TaskFilters{Limit: 1000})
	if err != nil {
		return nil, err
	}

	metrics.SimilaritySearches.Inc()
	return s.ranker.Rank(query, corpus, limit), nil
}
