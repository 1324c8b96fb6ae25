package analyze_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/leggal/leggal-agent/internal/app/analyze"
	"github.com/leggal/leggal-agent/internal/domain"
)

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Complete(ctx context.Context, system, user string, temperature float32, maxTokens int32) (string, error) {
	return f.response, f.err
}

func TestAnalyzeModelPath(t *testing.T) {
	llm := &fakeLLM{response: `Claro! Aqui está:
{"title": "Comprar café", "summary": "Comprar café para o escritório", "priority": "HIGH", "reasoning": "Mencionado como importante"}`}

	a := analyze.New(llm, analyze.DefaultPriorityRules())
	draft := a.Analyze(context.Background(), "preciso comprar café, é importante")

	if draft.Confidence != domain.ConfidenceModel {
		t.Fatalf("expected model confidence 0.9, got %v", draft.Confidence)
	}
	if draft.Title != "Comprar café" {
		t.Fatalf("unexpected title %q", draft.Title)
	}
	if draft.Priority != domain.PriorityHigh {
		t.Fatalf("unexpected priority %v", draft.Priority)
	}
}

func TestAnalyzeCoercesInvalidPriority(t *testing.T) {
	llm := &fakeLLM{response: `{"title": "t", "summary": "s", "priority": "MAXIMA", "reasoning": "r"}`}

	a := analyze.New(llm, analyze.DefaultPriorityRules())
	draft := a.Analyze(context.Background(), "qualquer coisa")

	if draft.Priority != domain.PriorityMedium {
		t.Fatalf("invalid priority should coerce to MEDIUM, got %v", draft.Priority)
	}
	if draft.Confidence != domain.ConfidenceModel {
		t.Fatalf("coercion keeps model confidence, got %v", draft.Confidence)
	}
}

func TestAnalyzeFallsBackOnModelError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("quota exceeded")}

	a := analyze.New(llm, analyze.DefaultPriorityRules())
	draft := a.Analyze(context.Background(), "preciso enviar o relatório urgente")

	if draft.Confidence != domain.ConfidenceHeuristic {
		t.Fatalf("expected heuristic confidence 0.7, got %v", draft.Confidence)
	}
	if draft.Priority != domain.PriorityUrgent {
		t.Fatalf("expected URGENT, got %v", draft.Priority)
	}
}

func TestAnalyzeFallsBackOnGarbageResponse(t *testing.T) {
	llm := &fakeLLM{response: "não consegui entender a mensagem"}

	a := analyze.New(llm, analyze.DefaultPriorityRules())
	draft := a.Analyze(context.Background(), "comprar café")

	if draft.Confidence != domain.ConfidenceHeuristic {
		t.Fatalf("expected heuristic confidence 0.7, got %v", draft.Confidence)
	}
}

func TestHeuristicPriorities(t *testing.T) {
	a := analyze.New(nil, analyze.DefaultPriorityRules())
	ctx := context.Background()

	tests := []struct {
		message string
		want    domain.Priority
	}{
		{"resolver o problema urgente do servidor", domain.PriorityUrgent},
		{"talvez revisar isso urgente", domain.PriorityUrgent}, // urgent wins over low
		{"preparar a reunião de quinta", domain.PriorityHigh},
		{"lavar o carro semana que vem", domain.PriorityMedium},
		{"arrumar a estante quando possível", domain.PriorityLow},
	}

	for _, tt := range tests {
		draft := a.Analyze(ctx, tt.message)
		if draft.Priority != tt.want {
			t.Errorf("Analyze(%q).Priority = %v, want %v", tt.message, draft.Priority, tt.want)
		}
		if draft.Confidence != domain.ConfidenceHeuristic {
			t.Errorf("Analyze(%q).Confidence = %v, want 0.7", tt.message, draft.Confidence)
		}
		if !domain.ValidPriority(draft.Priority) {
			t.Errorf("Analyze(%q) returned invalid priority %v", tt.message, draft.Priority)
		}
	}
}

func TestHeuristicTitleAndSummary(t *testing.T) {
	a := analyze.New(nil, analyze.DefaultPriorityRules())

	draft := a.Analyze(context.Background(), "Comprar café, açúcar e filtro para a copa do escritório amanhã cedo!")
	if draft.Title != "Comprar café açúcar e filtro para a copa" {
		t.Fatalf("unexpected title %q", draft.Title)
	}

	long := strings.Repeat("a", 120)
	draft = a.Analyze(context.Background(), long)
	if len([]rune(draft.Summary)) != 100 {
		t.Fatalf("expected 97 runes plus ellipsis, got %d", len([]rune(draft.Summary)))
	}
	if !strings.HasSuffix(draft.Summary, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", draft.Summary)
	}

	draft = a.Analyze(context.Background(), "?!...")
	if draft.Title != "Nova tarefa" {
		t.Fatalf("punctuation-only message should use default title, got %q", draft.Title)
	}
}

func TestDegradedDraft(t *testing.T) {
	long := strings.Repeat("x", 80)
	draft := analyze.DegradedDraft(long)

	if draft.Confidence != domain.ConfidenceDegraded {
		t.Fatalf("expected degraded confidence 0.3, got %v", draft.Confidence)
	}
	if draft.Priority != domain.PriorityMedium {
		t.Fatalf("expected MEDIUM, got %v", draft.Priority)
	}
	if len([]rune(draft.Title)) != 53 {
		t.Fatalf("expected 50 runes plus ellipsis, got %d", len([]rune(draft.Title)))
	}
}
