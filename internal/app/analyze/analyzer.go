package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/leggal/leggal-agent/internal/domain"
	"github.com/leggal/leggal-agent/internal/metrics"
	"github.com/leggal/leggal-agent/internal/observability"
)

const (
	analyzeTemperature = 0.7
	analyzeMaxTokens   = 300

	defaultTitle = "Nova tarefa"
)

const analyzeSystemPrompt = "Você é um assistente especializado em análise e " +
	"priorização de tarefas. Responda sempre em português do Brasil."

// payloadPattern finds the first JSON object in a model response, which may be
// wrapped in prose or a fenced code block.
var payloadPattern = regexp.MustCompile(`(?s)\{.*\}`)

// Analyzer turns a free-form message into a TaskDraft. It is a never-fail
// boundary: every failure degrades to a lower-confidence draft instead of
// surfacing to the caller.
type Analyzer struct {
	llm   domain.LLMClient // nil = heuristic path only
	rules PriorityRules
}

// New builds an Analyzer. Pass llm == nil to run without a model backend.
func New(llm domain.LLMClient, rules PriorityRules) *Analyzer {
	return &Analyzer{llm: llm, rules: rules}
}

// modelPayload is the fixed shape the extraction prompt asks the model for.
type modelPayload struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Priority  string `json:"priority"`
	Reasoning string `json:"reasoning"`
}

// Analyze produces a draft for the message. Confidence records provenance:
// 0.9 model, 0.7 heuristic, 0.3 degraded fallback. Anything unexpected in
// either path is caught here and converted into the degraded draft.
func (a *Analyzer) Analyze(ctx context.Context, message string) (draft domain.TaskDraft) {
	defer func() {
		if r := recover(); r != nil {
			observability.LoggerFromContext(ctx).Error("task analysis panicked", "panic", r)
			draft = DegradedDraft(message)
		}
	}()

	if a.llm != nil {
		draft, err := a.analyzeWithModel(ctx, message)
		if err == nil {
			return draft
		}
		observability.LoggerFromContext(ctx).Warn("model analysis failed, using heuristics", "error", err)
		metrics.LLMFallbacks.WithLabelValues("analyze").Inc()
	}

	return a.analyzeHeuristic(message)
}

func (a *Analyzer) analyzeWithModel(ctx context.Context, message string) (domain.TaskDraft, error) {
	prompt := fmt.Sprintf(`Analise a seguinte mensagem de tarefa e forneça:
1. Um título conciso (máximo 60 caracteres)
2. Um resumo breve (máximo 150 caracteres)
3. Prioridade sugerida (LOW, MEDIUM, HIGH, ou URGENT)
4. Raciocínio para a prioridade escolhida

Mensagem: %s

Responda APENAS com um JSON no formato:
{
    "title": "título aqui",
    "summary": "resumo aqui",
    "priority": "MEDIUM",
    "reasoning": "explicação aqui"
}`, message)

	content, err := a.llm.Complete(ctx, analyzeSystemPrompt, prompt, analyzeTemperature, analyzeMaxTokens)
	if err != nil {
		return domain.TaskDraft{}, fmt.Errorf("model call: %w", err)
	}

	raw := payloadPattern.FindString(content)
	if raw == "" {
		return domain.TaskDraft{}, fmt.Errorf("no JSON payload in response")
	}

	var payload modelPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return domain.TaskDraft{}, fmt.Errorf("decoding payload: %w", err)
	}

	priority := domain.Priority(strings.ToUpper(strings.TrimSpace(payload.Priority)))
	if !domain.ValidPriority(priority) {
		priority = domain.PriorityMedium
	}

	title := payload.Title
	if title == "" {
		title = truncate(message, 60)
	}
	summary := payload.Summary
	if summary == "" {
		summary = truncate(message, 150)
	}
	reasoning := payload.Reasoning
	if reasoning == "" {
		reasoning = "Análise automática por IA"
	}

	return domain.TaskDraft{
		Title:      title,
		Summary:    summary,
		Priority:   priority,
		Reasoning:  reasoning,
		Confidence: domain.ConfidenceModel,
	}, nil
}

func (a *Analyzer) analyzeHeuristic(message string) domain.TaskDraft {
	priority := a.rules.Apply(message)

	return domain.TaskDraft{
		Title:      heuristicTitle(message),
		Summary:    heuristicSummary(message),
		Priority:   priority,
		Reasoning:  a.rules.Reasoning(priority),
		Confidence: domain.ConfidenceHeuristic,
	}
}

// DegradedDraft is the last-resort draft used when analysis fails entirely,
// built from the raw message alone.
func DegradedDraft(message string) domain.TaskDraft {
	return domain.TaskDraft{
		Title:      ellipsize(message, 50),
		Summary:    ellipsize(message, 100),
		Priority:   domain.PriorityMedium,
		Reasoning:  "Erro na análise automática",
		Confidence: domain.ConfidenceDegraded,
	}
}

// heuristicTitle strips punctuation and keeps the first eight words.
func heuristicTitle(message string) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, message)

	words := strings.Fields(clean)
	if len(words) > 8 {
		words = words[:8]
	}
	if len(words) == 0 {
		return defaultTitle
	}
	return strings.Join(words, " ")
}

// heuristicSummary keeps the message verbatim up to 100 runes, otherwise the
// first 97 plus an ellipsis.
func heuristicSummary(message string) string {
	runes := []rune(message)
	if len(runes) > 100 {
		return string(runes[:97]) + "..."
	}
	return message
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}

func ellipsize(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return s
}
