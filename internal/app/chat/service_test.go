package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/leggal/leggal-agent/internal/adapters/storage/memory"
	"github.com/leggal/leggal-agent/internal/app/analyze"
	"github.com/leggal/leggal-agent/internal/app/chat"
	"github.com/leggal/leggal-agent/internal/app/classify"
	"github.com/leggal/leggal-agent/internal/app/tasks"
	"github.com/leggal/leggal-agent/internal/domain"
)

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Complete(ctx context.Context, system, user string, temperature float32, maxTokens int32) (string, error) {
	return f.response, f.err
}

type fixture struct {
	svc      *chat.Service
	tasks    *memory.TaskStore
	messages *memory.MessageStore
}

func newFixture(llm domain.LLMClient) fixture {
	taskStore := memory.NewTaskStore()
	messageStore := memory.NewMessageStore()
	analyzer := analyze.New(nil, analyze.DefaultPriorityRules())
	taskSvc := tasks.NewService(taskStore, analyzer)

	svc := chat.NewService(
		classify.New(classify.DefaultVocabulary()),
		analyzer,
		llm,
		memory.NewUserStore(),
		taskSvc,
		messageStore,
	)
	return fixture{svc: svc, tasks: taskStore, messages: messageStore}
}

func TestHandleTurnGreetingAnswers(t *testing.T) {
	f := newFixture(&fakeLLM{response: "Olá! Tudo ótimo por aqui. 😊"})
	userID := domain.UserID("u1")

	result, err := f.svc.HandleTurn(context.Background(), userID, "oi, tudo bem?")
	if err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}

	if result.Kind != domain.TurnAnswer {
		t.Fatalf("expected answer turn, got %s", result.Kind)
	}
	if result.Task != nil {
		t.Fatal("greeting should not create a task")
	}
	if result.Content != "Olá! Tudo ótimo por aqui. 😊" {
		t.Fatalf("unexpected content: %q", result.Content)
	}

	history, err := f.svc.History(context.Background(), userID, 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected inbound and outbound messages, got %d", len(history))
	}
	if !history[0].FromUser || history[1].FromUser {
		t.Fatal("history should be chronological: user message first")
	}
	if history[1].TaskID != nil {
		t.Fatal("answer turn should not link a task")
	}
}

func TestHandleTurnUrgentMessageCreatesTask(t *testing.T) {
	f := newFixture(nil)
	userID := domain.UserID("u1")

	result, err := f.svc.HandleTurn(context.Background(), userID, "Preciso comprar café hoje, é urgente")
	if err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}

	if result.Kind != domain.TurnTaskCreated {
		t.Fatalf("expected task_created turn, got %s", result.Kind)
	}
	if result.Task == nil {
		t.Fatal("expected a task in the result")
	}
	if result.Task.Priority != domain.PriorityUrgent {
		t.Fatalf("expected URGENT priority, got %s", result.Task.Priority)
	}
	if result.Task.RawMessage != "Preciso comprar café hoje, é urgente" {
		t.Fatalf("raw message not preserved: %q", result.Task.RawMessage)
	}
	if !strings.Contains(result.Content, "Tarefa criada") {
		t.Fatalf("expected confirmation message, got %q", result.Content)
	}

	stored, err := f.tasks.GetTask(context.Background(), userID, result.Task.ID)
	if err != nil {
		t.Fatalf("created task not persisted: %v", err)
	}
	if stored.AIPriority != domain.PriorityUrgent {
		t.Fatalf("draft priority should land in shadow fields, got %s", stored.AIPriority)
	}

	history, err := f.svc.History(context.Background(), userID, 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	outbound := history[1]
	if outbound.FromUser {
		t.Fatal("second message should be the assistant's")
	}
	if outbound.TaskID == nil || *outbound.TaskID != result.Task.ID {
		t.Fatal("outbound message should link the created task")
	}
}

func TestHandleTurnAnswerFallsBackWithoutModel(t *testing.T) {
	f := newFixture(nil)

	result, err := f.svc.HandleTurn(context.Background(), "u1", "bom dia")
	if err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}
	if result.Kind != domain.TurnAnswer {
		t.Fatalf("expected answer turn, got %s", result.Kind)
	}
	if !strings.Contains(result.Content, "assistente de produtividade") {
		t.Fatalf("expected templated fallback, got %q", result.Content)
	}
}

func TestHandleTurnAnswerFallsBackOnModelError(t *testing.T) {
	f := newFixture(&fakeLLM{err: errors.New("deadline exceeded")})

	result, err := f.svc.HandleTurn(context.Background(), "u1", "obrigado!")
	if err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}
	if !strings.Contains(result.Content, "0 tarefas no total") {
		t.Fatalf("fallback should report task totals, got %q", result.Content)
	}
}

func TestHistoryIsChronologicalAndBounded(t *testing.T) {
	f := newFixture(nil)
	userID := domain.UserID("u1")

	for _, msg := range []string{"oi", "bom dia", "obrigado"} {
		if _, err := f.svc.HandleTurn(context.Background(), userID, msg); err != nil {
			t.Fatalf("HandleTurn(%q) failed: %v", msg, err)
		}
	}

	history, err := f.svc.History(context.Background(), userID, 4)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("expected limit to cap at 4, got %d", len(history))
	}
	// The oldest turn drops off; the window still reads oldest to newest.
	if !history[0].CreatedAt.Before(history[len(history)-1].CreatedAt) &&
		!history[0].CreatedAt.Equal(history[len(history)-1].CreatedAt) {
		t.Fatal("history should be in chronological order")
	}
	if history[len(history)-1].FromUser {
		t.Fatal("latest message should be the assistant reply")
	}
}
