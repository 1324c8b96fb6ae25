package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leggal/leggal-agent/internal/app/auth"
	"github.com/leggal/leggal-agent/internal/app/chat"
	"github.com/leggal/leggal-agent/internal/app/tasks"
	"github.com/leggal/leggal-agent/internal/app/webhook"
	"github.com/leggal/leggal-agent/internal/domain"
	"github.com/leggal/leggal-agent/internal/observability"
)

// Pinger is implemented by backends the health endpoint should check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler carries the application services behind the HTTP surface.
type Handler struct {
	auth     *auth.Service
	tasks    *tasks.Service
	chat     *chat.Service
	webhook  *webhook.Service
	validate *validator.Validate
	pingers  []Pinger
}

// NewHandler builds the handler. Any pingers given are checked by /health;
// the memory backend has none.
func NewHandler(authSvc *auth.Service, taskSvc *tasks.Service, chatSvc *chat.Service, webhookSvc *webhook.Service, pingers ...Pinger) *Handler {
	return &Handler{
		auth:     authSvc,
		tasks:    taskSvc,
		chat:     chatSvc,
		webhook:  webhookSvc,
		validate: validator.New(),
		pingers:  pingers,
	}
}

// NewRouter wires middleware and routes. Pass limiter == nil to run without
// rate limiting.
func NewRouter(h *Handler, limiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(Metrics)
	r.Use(chimw.RealIP)
	r.Use(RequestLogger)
	r.Use(chimw.Recoverer)

	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", h.Health)

	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)

	r.Post("/webhook/message", h.WebhookMessage)
	r.Get("/webhook/test", h.WebhookTest)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.auth))

		r.Get("/auth/me", h.Me)

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", h.CreateTask)
			r.Get("/", h.ListTasks)
			r.Get("/stats/overview", h.TaskStats)
			r.Post("/search/similar", h.SearchSimilar)
			r.Get("/{id}", h.GetTask)
			r.Put("/{id}", h.UpdateTask)
			r.Delete("/{id}", h.DeleteTask)
		})

		r.Post("/ai/analyze", h.AnalyzeMessage)

		r.Post("/chat/message", h.ChatMessage)
		r.Get("/chat/history", h.ChatHistory)
	})

	return r
}

// --- infrastructure endpoints ---

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	for _, p := range h.pingers {
		if err := p.Ping(r.Context()); err != nil {
			observability.LoggerFromContext(r.Context()).Error("health check failed", "error", err)
			jsonError(w, http.StatusServiceUnavailable, "dependency unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// --- auth ---

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			jsonError(w, http.StatusConflict, "email already registered")
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			jsonError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserResponse(CurrentUser(r.Context())))
}

// --- tasks ---

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Title == "" && req.RawMessage == "" {
		jsonError(w, http.StatusBadRequest, "title or raw_message is required")
		return
	}

	user := CurrentUser(r.Context())
	task, err := h.tasks.Create(r.Context(), user.ID, tasks.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		RawMessage:  req.RawMessage,
		Priority:    domain.Priority(req.Priority),
		Status:      domain.TaskStatus(req.Status),
		Source:      "api",
	})
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	q := r.URL.Query()

	filters := domain.TaskFilters{
		Status:   domain.TaskStatus(q.Get("status")),
		Priority: domain.Priority(q.Get("priority")),
		Search:   q.Get("search"),
		Limit:    intQuery(q.Get("limit")),
		Offset:   intQuery(q.Get("offset")),
	}
	if filters.Status != "" && !domain.ValidStatus(filters.Status) {
		jsonError(w, http.StatusBadRequest, "invalid status filter")
		return
	}
	if filters.Priority != "" && !domain.ValidPriority(filters.Priority) {
		jsonError(w, http.StatusBadRequest, "invalid priority filter")
		return
	}

	list, err := h.tasks.List(r.Context(), user.ID, filters)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponses(list))
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	id := domain.TaskID(chi.URLParam(r, "id"))

	task, err := h.tasks.Get(r.Context(), user.ID, id)
	if err != nil {
		h.taskError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if !h.decode(w, r, &req) {
		return
	}

	user := CurrentUser(r.Context())
	id := domain.TaskID(chi.URLParam(r, "id"))

	in := tasks.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		in.Priority = &p
	}
	if req.Status != nil {
		s := domain.TaskStatus(*req.Status)
		in.Status = &s
	}

	task, err := h.tasks.Update(r.Context(), user.ID, id, in)
	if err != nil {
		h.taskError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	id := domain.TaskID(chi.URLParam(r, "id"))

	if err := h.tasks.Delete(r.Context(), user.ID, id); err != nil {
		h.taskError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) TaskStats(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())

	stats, err := h.tasks.Stats(r.Context(), user.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	out := statsResponse{
		Total:      stats.Total,
		ByStatus:   make(map[string]int, len(stats.ByStatus)),
		ByPriority: make(map[string]int, len(stats.ByPriority)),
	}
	for status, n := range stats.ByStatus {
		out.ByStatus[string(status)] = n
	}
	for priority, n := range stats.ByPriority {
		out.ByPriority[string(priority)] = n
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) SearchSimilar(w http.ResponseWriter, r *http.Request) {
	var req similarSearchRequest
	if !h.decode(w, r, &req) {
		return
	}

	user := CurrentUser(r.Context())
	results, err := h.tasks.SearchSimilar(r.Context(), user.ID, req.Query, req.Limit)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	out := make([]similarTaskResponse, 0, len(results))
	for _, res := range results {
		out = append(out, similarTaskResponse{Task: toTaskResponse(res.Task), Score: res.Score})
	}
	writeJSON(w, http.StatusOK, out)
}

// AnalyzeMessage previews the analyzer's draft for a message without creating
// a task.
func (h *Handler) AnalyzeMessage(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !h.decode(w, r, &req) {
		return
	}

	draft := h.tasks.Analyze(r.Context(), req.Message)
	writeJSON(w, http.StatusOK, analyzeResponse{
		Title:      draft.Title,
		Summary:    draft.Summary,
		Priority:   string(draft.Priority),
		Reasoning:  draft.Reasoning,
		Confidence: draft.Confidence,
	})
}

// --- chat ---

func (h *Handler) ChatMessage(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !h.decode(w, r, &req) {
		return
	}

	user := CurrentUser(r.Context())
	result, err := h.chat.HandleTurn(r.Context(), user.ID, req.Message)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	resp := chatResponse{Type: string(result.Kind), Content: result.Content}
	if result.Task != nil {
		task := toTaskResponse(result.Task)
		resp.Task = &task
		resp.LinkedTaskID = task.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	limit := intQuery(r.URL.Query().Get("limit"))

	msgs, err := h.chat.History(r.Context(), user.ID, limit)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	out := make([]chatMessageResponse, 0, len(msgs))
	for _, msg := range msgs {
		m := chatMessageResponse{
			ID:        string(msg.ID),
			Text:      msg.Text,
			FromUser:  msg.FromUser,
			CreatedAt: msg.CreatedAt,
		}
		if msg.TaskID != nil {
			m.TaskID = string(*msg.TaskID)
		}
		out = append(out, m)
	}
	writeJSON(w, http.StatusOK, out)
}

// --- webhook ---

// WebhookMessage ingests external messages. Callers identify the target user
// via the X-User-ID header instead of a bearer token.
func (h *Handler) WebhookMessage(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		jsonError(w, http.StatusBadRequest, "X-User-ID header is required")
		return
	}

	var req webhookRequest
	if !h.decode(w, r, &req) {
		return
	}

	task, err := h.webhook.Ingest(r.Context(), domain.UserID(userID), req.Message)
	if err != nil {
		if errors.Is(err, webhook.ErrEmptyMessage) {
			jsonError(w, http.StatusBadRequest, "message must not be empty")
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (h *Handler) WebhookTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "webhook endpoint reachable"})
}

// --- helpers ---

// decode parses and validates a JSON body, writing the error response itself
// when the payload is bad.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64*1024)).Decode(dst); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		jsonError(w, http.StatusUnprocessableEntity, "validation failed: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) taskError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "task not found")
		return
	}
	h.internalError(w, r, err)
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("request failed", "error", err)
	jsonError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func jsonError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func intQuery(raw string) int {
	n, _ := strconv.Atoi(raw)
	return n
}
