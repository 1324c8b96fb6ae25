package classify_test

import (
	"testing"

	"github.com/leggal/leggal-agent/internal/app/classify"
	"github.com/leggal/leggal-agent/internal/domain"
)

func TestClassify(t *testing.T) {
	c := classify.New(classify.DefaultVocabulary())

	tests := []struct {
		name string
		text string
		want domain.Classification
	}{
		{"greeting", "oi, tudo bem?", domain.Conversational},
		{"greeting without question mark", "bom dia", domain.Conversational},
		{"thanks", "obrigado pela ajuda de ontem", domain.Conversational},
		{"frustration", "pqp que dia complicado", domain.Conversational},
		{"question mark", "amanhã vai chover?", domain.Conversational},
		{"question word at start", "quais tarefas estão pendentes hoje em dia", domain.Conversational},
		{"question word inside", "então quando vence aquele boleto do carro", domain.Conversational},
		{"short without action hint", "dormir cedo", domain.Conversational},
		{"short with action hint", "comprar pão", domain.Actionable},
		{"explicit action", "preciso revisar o relatório financeiro até sexta", domain.Actionable},
		{"action verb inside", "amanhã vou agendar consulta no dentista", domain.Actionable},
		{"no explicit action defaults to chat", "relatório financeiro do trimestre passado", domain.Conversational},
		{"empty", "", domain.Conversational},
		{"whitespace only", "   \t  ", domain.Conversational},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.text); got != tt.want {
				t.Fatalf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// A conversational pattern earlier in the rule order wins even when the text
// also contains a question mark or an action verb.
func TestClassifyRuleOrder(t *testing.T) {
	c := classify.New(classify.DefaultVocabulary())

	if got := c.Classify("valeu! preciso comprar café depois"); got != domain.Conversational {
		t.Fatalf("conversational pattern should win over action verb, got %v", got)
	}
	if got := c.Classify("preciso fazer algo hoje?"); got != domain.Conversational {
		t.Fatalf("question mark should win over action verb, got %v", got)
	}
}

func TestClassifyCustomVocabulary(t *testing.T) {
	vocab := classify.Vocabulary{
		ConversationalPatterns:  []string{"hello"},
		QuestionWords:           []string{"what"},
		ActionWords:             []string{"need to", "buy"},
		ShortMessageThreshold:   15,
		ShortMessageActionHints: []string{"buy"},
	}
	c := classify.New(vocab)

	if got := c.Classify("hello there"); got != domain.Conversational {
		t.Fatalf("expected conversational, got %v", got)
	}
	if got := c.Classify("need to finish the quarterly report"); got != domain.Actionable {
		t.Fatalf("expected actionable, got %v", got)
	}
}
