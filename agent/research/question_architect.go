package research

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BaSui01/researchflow/a2a"
	"github.com/BaSui01/researchflow/agent"
	"github.com/BaSui01/researchflow/llm"
	"github.com/BaSui01/researchflow/state"
)

// questionsPerRound caps how many questions one generation round yields.
const questionsPerRound = 3

// NewQuestionArchitect builds the agent that turns the current topic into
// concrete, searchable research questions.
func NewQuestionArchitect(store state.Store, provider llm.Provider, logger *zap.Logger) *agent.Agent {
	ag := agent.New(agent.Config{
		ID:        AgentIDQuestionArchitect,
		Name:      NameQuestionArchitect,
		Role:      "Research Question Designer",
		Expertise: []string{"Formulating precise, investigable research questions"},
		Logger:    nopLogger(logger),
	})

	persona := systemPrompt(NameQuestionArchitect, "Research Question Designer",
		"Formulating precise, investigable research questions")

	ag.Register(a2a.Capability{
		Name:        ActionGenerateQuestions,
		Description: "Generate specific research questions for a topic",
		Parameters: map[string]any{
			taskIDParam: map[string]any{
				"type":        "string",
				"description": "Unique task identifier",
				"required":    true,
			},
		},
		Returns: map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"description": "List of research questions",
				"items":       map[string]any{"type": "string"},
			},
			"count": map[string]any{
				"type":        "integer",
				"description": "Number of questions generated",
			},
		},
	}, func(ctx context.Context, params, _ map[string]any) (map[string]any, error) {
		id, err := taskID(params)
		if err != nil {
			return nil, err
		}
		task, err := loadTask(ctx, store, id)
		if err != nil {
			return nil, err
		}

		prompt := fmt.Sprintf(`Research Topic: %s
Iteration: %d

Generate %d specific, actionable research questions that:
1. Are directly answerable through web searches
2. Cover different aspects of the topic
3. Build upon previous iterations (if any)
4. Are concrete and factual

Return ONLY the questions, numbered 1-%d, one per line.`,
			task.Topic, task.Iteration, questionsPerRound, questionsPerRound)

		response, err := invoke(ctx, provider, persona, prompt)
		if err != nil {
			return nil, err
		}
		questions := numberedLines(response, questionsPerRound)

		task.ResearchQuestions = append(task.ResearchQuestions, questions...)
		task.Status = state.StatusQuestionsGenerated
		task.CurrentAgent = NameQuestionArchitect
		if err := store.Set(ctx, id, task); err != nil {
			return nil, err
		}
		if err := store.AppendLog(ctx, id, logEntry(NameQuestionArchitect, AgentIDQuestionArchitect, "generated_questions", map[string]any{
			"count":     len(questions),
			"questions": questions,
		})); err != nil {
			return nil, err
		}

		return map[string]any{
			"questions":       questions,
			"count":           len(questions),
			"total_questions": len(task.ResearchQuestions),
		}, nil
	})

	return ag
}
