package analyze

import (
	"strings"

	"github.com/leggal/leggal-agent/internal/domain"
)

// PriorityRules maps keyword sets to priorities. The sets are checked in
// order — urgent first, then high, then low — and the first match wins.
type PriorityRules struct {
	UrgentMarkers []string
	HighMarkers   []string
	LowMarkers    []string
}

// DefaultPriorityRules returns the Brazilian Portuguese marker sets.
func DefaultPriorityRules() PriorityRules {
	return PriorityRules{
		UrgentMarkers: []string{"urgente", "asap", "hoje", "agora", "imediato", "crítico"},
		HighMarkers:   []string{"importante", "reunião", "prazo", "deadline", "cliente"},
		LowMarkers:    []string{"talvez", "quando possível", "baixa prioridade"},
	}
}

// Apply scans the lower-cased message and returns the priority of the first
// matching marker set, or MEDIUM when nothing matches.
func (r PriorityRules) Apply(message string) domain.Priority {
	msg := strings.ToLower(message)

	switch {
	case matchesAny(msg, r.UrgentMarkers):
		return domain.PriorityUrgent
	case matchesAny(msg, r.HighMarkers):
		return domain.PriorityHigh
	case matchesAny(msg, r.LowMarkers):
		return domain.PriorityLow
	default:
		return domain.PriorityMedium
	}
}

// Reasoning returns the fixed explanation for the rule that fired.
func (r PriorityRules) Reasoning(priority domain.Priority) string {
	switch priority {
	case domain.PriorityUrgent:
		return "Palavras indicam urgência (urgente, asap, hoje, etc.)"
	case domain.PriorityHigh:
		return "Palavras indicam importância (reunião, prazo, cliente)"
	case domain.PriorityLow:
		return "Palavras indicam baixa prioridade"
	default:
		return "Prioridade padrão atribuída automaticamente"
	}
}

func matchesAny(msg string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
