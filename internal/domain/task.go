package domain

import "time"

// Task is a prioritized unit of work owned by a user.
//
// The ai_* shadow fields record the analyzer's independent opinion at creation
// time, even when the caller supplied an explicit title or priority. They are
// audit data and must never be merged into the explicit fields.
type Task struct {
	ID          TaskID
	UserID      UserID
	Title       string
	Description string
	Priority    Priority
	Status      TaskStatus
	RawMessage  string

	AITitle     string
	AISummary   string
	AIPriority  Priority
	AIReasoning string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Analyzer confidence by provenance.
const (
	ConfidenceModel     = 0.9 // structured payload parsed from the model
	ConfidenceHeuristic = 0.7 // keyword rules
	ConfidenceDegraded  = 0.3 // analysis failed, raw-message fallback
)

// TaskDraft is the analyzer's proposal for a task before persistence.
// Constructed fresh per Analyze call and never mutated.
type TaskDraft struct {
	Title      string
	Summary    string
	Priority   Priority
	Reasoning  string
	Confidence float64
}

// SimilarityResult pairs a task with its lexical similarity to a query.
// Ephemeral, computed per query, ordered by score descending.
type SimilarityResult struct {
	Task  *Task
	Score float64
}

// TaskFilters narrows and paginates a task listing.
type TaskFilters struct {
	Status   TaskStatus // empty = any
	Priority Priority   // empty = any
	Search   string     // case-insensitive substring over text fields
	Limit    int
	Offset   int
}

// TaskStats aggregates a user's tasks by status and priority.
type TaskStats struct {
	ByStatus   map[TaskStatus]int
	ByPriority map[Priority]int
	Total      int
}
