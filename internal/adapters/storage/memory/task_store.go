package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/leggal/leggal-agent/internal/domain"
)

// TaskStore keeps tasks in process memory.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[domain.TaskID]*domain.Task
}

func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[domain.TaskID]*domain.Task)}
}

func (s *TaskStore) CreateTask(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := *task
	s.tasks[t.ID] = &t
	return nil
}

func (s *TaskStore) GetTask(_ context.Context, userID domain.UserID, id domain.TaskID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok || task.UserID != userID {
		return nil, domain.ErrNotFound
	}
	t := *task
	return &t, nil
}

func (s *TaskStore) ListTasks(_ context.Context, userID domain.UserID, filters domain.TaskFilters) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*domain.Task, 0)
	for _, task := range s.tasks {
		if task.UserID != userID {
			continue
		}
		if filters.Status != "" && task.Status != filters.Status {
			continue
		}
		if filters.Priority != "" && task.Priority != filters.Priority {
			continue
		}
		if filters.Search != "" && !matchesSearch(task, filters.Search) {
			continue
		}
		t := *task
		matched = append(matched, &t)
	}

	sortNewestFirst(matched)

	if filters.Offset >= len(matched) {
		return []*domain.Task{}, nil
	}
	matched = matched[filters.Offset:]
	if filters.Limit > 0 && len(matched) > filters.Limit {
		matched = matched[:filters.Limit]
	}
	return matched, nil
}

func (s *TaskStore) ListRecentTasks(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Task, error) {
	return s.ListTasks(ctx, userID, domain.TaskFilters{Limit: limit})
}

func (s *TaskStore) UpdateTask(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return domain.ErrNotFound
	}

	t := *task
	s.tasks[t.ID] = &t
	return nil
}

func (s *TaskStore) DeleteTask(_ context.Context, userID domain.UserID, id domain.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.UserID != userID {
		return domain.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *TaskStore) TaskStats(_ context.Context, userID domain.UserID) (*domain.TaskStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &domain.TaskStats{
		ByStatus:   make(map[domain.TaskStatus]int),
		ByPriority: make(map[domain.Priority]int),
	}
	for _, task := range s.tasks {
		if task.UserID != userID {
			continue
		}
		stats.Total++
		stats.ByStatus[task.Status]++
		stats.ByPriority[task.Priority]++
	}
	return stats, nil
}

func matchesSearch(task *domain.Task, query string) bool {
	q := strings.ToLower(query)
	for _, field := range []string{task.Title, task.Description, task.RawMessage, task.AITitle, task.AISummary} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func sortNewestFirst(tasks []*domain.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}
