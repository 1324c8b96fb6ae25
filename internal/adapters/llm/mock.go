package llm

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM is a deterministic stand-in for local runs without GCP credentials.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Complete(_ context.Context, systemPrompt, userPrompt string, _ float32, _ int32) (string, error) {
	// Task extraction prompts expect a JSON payload back.
	if strings.Contains(userPrompt, "Responda APENAS com um JSON") {
		return `{"title": "Tarefa simulada", "summary": "Resposta gerada pelo modelo simulado", "priority": "MEDIUM", "reasoning": "Prioridade padrão do modo simulado"}`, nil
	}
	return fmt.Sprintf("Entendi! Você disse: %q. Estou aqui para otimizar seu tempo. 😊", userPrompt), nil
}
