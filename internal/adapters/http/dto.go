package httpadapter

import (
	"time"

	"github.com/leggal/leggal-agent/internal/domain"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=120"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(user *domain.User) userResponse {
	return userResponse{
		ID:        string(user.ID),
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

type createTaskRequest struct {
	Title       string `json:"title" validate:"omitempty,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	RawMessage  string `json:"raw_message" validate:"omitempty,max=2000"`
	Priority    string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Status      string `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
}

type updateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Status      *string `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
}

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	RawMessage  string    `json:"raw_message,omitempty"`
	AITitle     string    `json:"ai_title,omitempty"`
	AISummary   string    `json:"ai_summary,omitempty"`
	AIPriority  string    `json:"ai_priority,omitempty"`
	AIReasoning string    `json:"ai_reasoning,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTaskResponse(task *domain.Task) taskResponse {
	return taskResponse{
		ID:          string(task.ID),
		Title:       task.Title,
		Description: task.Description,
		Priority:    string(task.Priority),
		Status:      string(task.Status),
		RawMessage:  task.RawMessage,
		AITitle:     task.AITitle,
		AISummary:   task.AISummary,
		AIPriority:  string(task.AIPriority),
		AIReasoning: task.AIReasoning,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func toTaskResponses(tasks []*domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toTaskResponse(task))
	}
	return out
}

type similarSearchRequest struct {
	Query string `json:"query" validate:"required,min=1,max=500"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=50"`
}

type similarTaskResponse struct {
	Task  taskResponse `json:"task"`
	Score float64      `json:"score"`
}

type statsResponse struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
}

type analyzeRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

type analyzeResponse struct {
	Title      string  `json:"title"`
	Summary    string  `json:"summary"`
	Priority   string  `json:"priority"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
}

type chatRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

type chatResponse struct {
	Type         string        `json:"type"`
	Content      string        `json:"content"`
	Task         *taskResponse `json:"task,omitempty"`
	LinkedTaskID string        `json:"linked_task_id,omitempty"`
}

type chatMessageResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	FromUser  bool      `json:"from_user"`
	TaskID    string    `json:"task_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type webhookRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}
