package webhook_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/leggal/leggal-agent/internal/adapters/storage/memory"
	"github.com/leggal/leggal-agent/internal/app/analyze"
	"github.com/leggal/leggal-agent/internal/app/tasks"
	"github.com/leggal/leggal-agent/internal/app/webhook"
	"github.com/leggal/leggal-agent/internal/domain"
)

func newService() (*webhook.Service, *memory.TaskStore) {
	store := memory.NewTaskStore()
	analyzer := analyze.New(nil, analyze.DefaultPriorityRules())
	return webhook.NewService(tasks.NewService(store, analyzer)), store
}

func TestIngestCreatesTask(t *testing.T) {
	svc, store := newService()
	userID := domain.UserID("u1")

	task, err := svc.Ingest(context.Background(), userID, "Enviar relatório para o cliente")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if task.Title != "Enviar relatório para o cliente" {
		t.Fatalf("unexpected title: %q", task.Title)
	}
	if task.Description != "Enviar relatório para o cliente" {
		t.Fatalf("message should double as description, got %q", task.Description)
	}
	if task.Priority != domain.PriorityMedium {
		t.Fatalf("expected MEDIUM priority, got %s", task.Priority)
	}
	if task.Status != domain.StatusPending {
		t.Fatalf("expected PENDING status, got %s", task.Status)
	}

	if _, err := store.GetTask(context.Background(), userID, task.ID); err != nil {
		t.Fatalf("task not persisted: %v", err)
	}
}

func TestIngestTruncatesLongTitle(t *testing.T) {
	svc, _ := newService()

	message := strings.Repeat("a", 150)
	task, err := svc.Ingest(context.Background(), "u1", message)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if want := strings.Repeat("a", 100) + "..."; task.Title != want {
		t.Fatalf("title should be cut at 100 runes plus ellipsis, got %d chars", len(task.Title))
	}
	if task.Description != message {
		t.Fatal("description should keep the full message")
	}
}

func TestIngestRejectsEmptyMessage(t *testing.T) {
	svc, _ := newService()

	for _, message := range []string{"", "   ", "\n\t"} {
		if _, err := svc.Ingest(context.Background(), "u1", message); !errors.Is(err, webhook.ErrEmptyMessage) {
			t.Fatalf("Ingest(%q) = %v, want ErrEmptyMessage", message, err)
		}
	}
}

func TestIngestFillsShadowFields(t *testing.T) {
	svc, _ := newService()

	task, err := svc.Ingest(context.Background(), "u1", "Pagar boleto urgente hoje")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if task.AIPriority != domain.PriorityUrgent {
		t.Fatalf("analyzer opinion should land in shadow fields, got %s", task.AIPriority)
	}
	if task.Priority != domain.PriorityMedium {
		t.Fatalf("explicit MEDIUM should win over the analyzer, got %s", task.Priority)
	}
}
