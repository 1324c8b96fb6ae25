package domain

import "time"

// ChatMessage is one entry in a user's conversation log.
// Immutable after creation; ordering is by CreatedAt.
type ChatMessage struct {
	ID       MessageID
	UserID   UserID
	Text     string
	FromUser bool // true = human, false = assistant

	// TaskID links the assistant's reply to the task it created, when any.
	TaskID *TaskID

	CreatedAt time.Time
}

// TurnKind tells the caller which branch a turn took.
type TurnKind string

const (
	TurnAnswer      TurnKind = "answer"
	TurnTaskCreated TurnKind = "task_created"
)

// TurnResult is the outcome of one full conversation turn.
type TurnResult struct {
	Kind    TurnKind
	Content string
	Task    *Task // set only when Kind == TurnTaskCreated
}
