package domain

type UserID string
type TaskID string
type MessageID string

// Priority is the urgency level assigned to a task.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// ValidPriority reports whether p is one of the four known levels.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Label returns the pt-BR display name for the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Baixa"
	case PriorityMedium:
		return "Média"
	case PriorityHigh:
		return "Alta"
	case PriorityUrgent:
		return "Urgente"
	}
	return string(p)
}

// Emoji returns the marker used when rendering the priority in chat replies.
func (p Priority) Emoji() string {
	switch p {
	case PriorityLow:
		return "🟢"
	case PriorityMedium:
		return "🟡"
	case PriorityHigh:
		return "🟠"
	case PriorityUrgent:
		return "🔴"
	}
	return "⚪"
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusCancelled  TaskStatus = "CANCELLED"
)

// ValidStatus reports whether s is one of the four known states.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Label returns the pt-BR display name for the status.
func (s TaskStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pendente"
	case StatusInProgress:
		return "Em progresso"
	case StatusCompleted:
		return "Concluída"
	case StatusCancelled:
		return "Cancelada"
	}
	return string(s)
}

// Classification is the intent assigned to an inbound chat message.
// It only exists as a function return, never persisted.
type Classification string

const (
	// Conversational messages get an answer grounded in the user's task state.
	Conversational Classification = "conversational"
	// Actionable messages request work and become a new task.
	Actionable Classification = "actionable"
)
