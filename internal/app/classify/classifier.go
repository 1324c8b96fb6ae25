package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/leggal/leggal-agent/internal/domain"
)

// Classifier decides whether a free-form message is chit-chat to be answered
// or a request to create a task. Pure and deterministic for a given input.
type Classifier struct {
	vocab Vocabulary
}

// New builds a Classifier around the given vocabulary.
func New(vocab Vocabulary) *Classifier {
	return &Classifier{vocab: vocab}
}

// Classify applies the decision rules in order; the first match wins because
// the keyword sets overlap. The default is Conversational: a task is only
// created when action intent is explicit.
func (c *Classifier) Classify(text string) domain.Classification {
	msg := strings.ToLower(strings.TrimSpace(text))

	// 1. Conversational expressions anywhere in the message.
	for _, pattern := range c.vocab.ConversationalPatterns {
		if strings.Contains(msg, pattern) {
			return domain.Conversational
		}
	}

	// 2. A question mark means a question to answer, not work to do.
	if strings.Contains(msg, "?") {
		return domain.Conversational
	}

	// 3. Interrogative words at the start or as a standalone token/phrase.
	for _, word := range c.vocab.QuestionWords {
		if strings.HasPrefix(msg, word) || strings.Contains(msg, " "+word+" ") {
			return domain.Conversational
		}
	}

	// 4. Short utterances default to chit-chat unless they clearly request work.
	if utf8.RuneCountInString(msg) < c.vocab.ShortMessageThreshold {
		if !containsAny(msg, c.vocab.ShortMessageActionHints) {
			return domain.Conversational
		}
	}

	// 5. Explicit action verbs.
	if containsAny(msg, c.vocab.ActionWords) {
		return domain.Actionable
	}

	// 6. Conservative default.
	return domain.Conversational
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
