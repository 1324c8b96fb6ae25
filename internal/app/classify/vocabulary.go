package classify

// Vocabulary is the keyword configuration driving classification. The lists
// are matched case-insensitively and are locale-specific; swapping them
// retargets the classifier without code changes.
type Vocabulary struct {
	// ConversationalPatterns match anywhere in the message: greetings, thanks,
	// frustration interjections, help requests, questions about the assistant.
	ConversationalPatterns []string

	// QuestionWords match at the start of the message or as a space-delimited
	// token/phrase inside it.
	QuestionWords []string

	// ActionWords match anywhere and mark the message as a work request.
	ActionWords []string

	// ShortMessageThreshold is the length (in runes, after trimming) under
	// which a message defaults to chit-chat unless it carries an action hint.
	ShortMessageThreshold int

	// ShortMessageActionHints is the reduced action list consulted by the
	// short-message rule. Kept separate from ActionWords because the overlap
	// is deliberate and partial.
	ShortMessageActionHints []string
}

// DefaultVocabulary returns the Brazilian Portuguese keyword sets.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		ConversationalPatterns: []string{
			"oi", "olá", "ola", "hey", "e aí", "eai", "tudo bem", "tudo bom",
			"bom dia", "boa tarde", "boa noite", "obrigad", "valeu", "vlw",
			"legal", "show", "massa", "top", "maneiro", "dahora",
			"vsf", "pqp", "cacete", "caramba", "nossa", "mds", "ai ai",
			"help", "ajuda", "socorro", "perdid", "confus",
			"como funciona", "o que você faz", "quem é você", "como usar",
		},
		QuestionWords: []string{
			"qual", "quais", "como", "quando", "onde", "por que", "porque",
			"quanto", "quantos", "quantas", "o que", "há", "existe", "tem",
			"posso", "pode", "consegue", "me mostra", "me diz", "me conta",
			"vê", "veja", "mostra", "lista",
		},
		ActionWords: []string{
			"preciso", "devo", "tenho que", "precisa", "fazer", "criar",
			"organizar", "preparar", "revisar", "enviar", "comprar",
			"agendar", "marcar", "ligar", "falar com",
		},
		ShortMessageThreshold: 15,
		ShortMessageActionHints: []string{
			"preciso", "fazer", "criar", "comprar", "enviar", "revisar",
		},
	}
}
