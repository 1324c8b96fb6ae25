package chat

import (
	"fmt"
	"strings"

	"github.com/leggal/leggal-agent/internal/domain"
)

// turnStats summarizes the task corpus injected into the answer prompt.
type turnStats struct {
	Total      int
	Pending    int
	InProgress int
	Completed  int
	Urgent     int
}

func summarizeTasks(tasks []*domain.Task) (string, turnStats) {
	var stats turnStats
	stats.Total = len(tasks)

	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		switch t.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusInProgress:
			stats.InProgress++
		case domain.StatusCompleted:
			stats.Completed++
		}
		if t.Priority == domain.PriorityUrgent {
			stats.Urgent++
		}

		description := t.Description
		if description == "" {
			description = "Sem descrição"
		}
		lines = append(lines, fmt.Sprintf("%s %s - %s (Status: %s, Prioridade: %s)",
			t.Priority.Emoji(), t.Title, description, t.Status.Label(), t.Priority.Label()))
	}

	summary := "Nenhuma tarefa cadastrada."
	if len(lines) > 0 {
		summary = strings.Join(lines, "\n")
	}
	return summary, stats
}

// answerSystemPrompt embeds the persona rules and the user's live task state.
func answerSystemPrompt(userName, tasksSummary string, stats turnStats) string {
	return fmt.Sprintf(`Você é um assistente inteligente de produtividade chamado Leggal.

SUA MISSÃO: Otimizar o tempo do usuário ajudando-o a gerenciar tarefas de forma eficiente.

PERSONALIDADE:
- Seja educado, prestativo e empático
- Fale de forma natural, como um humano real
- Sempre reforce que sua missão é OTIMIZAR O TEMPO da pessoa
- Dê dicas práticas de produtividade
- Parabenize conquistas e incentive ações
- Se o usuário estiver frustrado, mostre empatia e ofereça ajuda concreta
- Seja leve e bem-humorado quando apropriado
- NUNCA crie tarefas em conversas casuais

CONTEXTO DO USUÁRIO:
Nome: %s
Total de tarefas: %d
Pendentes: %d
Em progresso: %d
Concluídas: %d
Urgentes: %d

TAREFAS DO USUÁRIO:
%s

COMO REAGIR A DIFERENTES SITUAÇÕES:
- Cumprimentos (oi, olá): Cumprimente de volta, mostre status das tarefas, ofereça ajuda
- Frustração (vsf, pqp, etc): Mostre empatia, pergunte o que aconteceu, ofereça ajuda
- Perguntas sobre tarefas: Responda com base no contexto real
- Pedido de ajuda: Ofereça sugestões práticas de organização
- Agradecimentos: Seja cordial e pergunte se precisa de mais algo

REGRAS:
- Responda SEMPRE em português do Brasil
- Use emojis para deixar a conversa mais amigável
- Seja CONCISO mas COMPLETO
- Ao listar tarefas, use **negrito** em títulos
- Sempre use prioridades em PORTUGUÊS: Baixa, Média, Alta, Urgente
- Sempre use status em PORTUGUÊS: Pendente, Em progresso, Concluída
- Sempre reforce sua missão de otimizar tempo
- Dê sugestões práticas e acionáveis
- Adapte o tom à situação (formal, casual, empático)
- Use separadores (━━━) para organizar informações quando necessário`,
		userName, stats.Total, stats.Pending, stats.InProgress, stats.Completed, stats.Urgent, tasksSummary)
}

// fallbackAnswer is the fixed status template used when no model is
// configured or the call fails.
func fallbackAnswer(stats turnStats) string {
	return fmt.Sprintf(`Olá! 👋 Sou seu assistente de produtividade.

📊 Status atual:
- %d tarefas no total
- %d pendentes
- %d urgentes

Minha missão é **otimizar seu tempo**! Como posso ajudar? 😊`,
		stats.Total, stats.Pending, stats.Urgent)
}

// confirmationMessage is the fixed template announcing a created task.
func confirmationMessage(draft domain.TaskDraft) string {
	return fmt.Sprintf(`✅ **Tarefa criada com sucesso!**

━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

📋 **Título:**
%s

📝 **Descrição:**
%s

⚡ **Prioridade:** %s **%s**

━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

💡 **Por que essa prioridade?**
%s

━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

🎯 **Próximos passos:**
• Foque nas tarefas urgentes (🔴) primeiro
• Organize seu tempo com base nas prioridades
• Use este assistente sempre que precisar!

Estou aqui para otimizar seu tempo! 💪`,
		draft.Title, draft.Summary, draft.Priority.Emoji(), draft.Priority.Label(), draft.Reasoning)
}
