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

// NewTopicRefiner builds the agent that sharpens a raw topic into a focused,
// searchable one.
func NewTopicRefiner(store state.Store, provider llm.Provider, logger *zap.Logger) *agent.Agent {
	ag := agent.New(agent.Config{
		ID:        AgentIDTopicRefiner,
		Name:      NameTopicRefiner,
		Role:      "Research Topic Specialist",
		Expertise: []string{"Clarifying research objectives and scoping studies"},
		Logger:    nopLogger(logger),
	})

	persona := systemPrompt(NameTopicRefiner, "Research Topic Specialist",
		"Clarifying research objectives and scoping studies")

	ag.Register(a2a.Capability{
		Name:        ActionRefineTopic,
		Description: "Refine and clarify a research topic",
		Parameters: map[string]any{
			taskIDParam: map[string]any{
				"type":        "string",
				"description": "Unique task identifier",
				"required":    true,
			},
		},
		Returns: map[string]any{
			"refined_topic": map[string]any{
				"type":        "string",
				"description": "Refined and focused research topic",
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

		original := task.Topic
		prompt := fmt.Sprintf(`Analyze this research topic: '%s'

Your task:
1. Identify the core research question
2. Suggest a more specific, searchable focus
3. Ensure the topic is neither too broad nor too narrow

Return ONLY the refined topic as a single clear sentence.`, original)

		refined, err := invoke(ctx, provider, persona, prompt)
		if err != nil {
			return nil, err
		}

		task.Topic = refined
		task.Status = state.StatusTopicRefined
		task.CurrentAgent = NameTopicRefiner
		if err := store.Set(ctx, id, task); err != nil {
			return nil, err
		}
		if err := store.AppendLog(ctx, id, logEntry(NameTopicRefiner, AgentIDTopicRefiner, "refined_topic", map[string]any{
			"input":  original,
			"output": refined,
		})); err != nil {
			return nil, err
		}

		return map[string]any{
			"refined_topic":  refined,
			"original_topic": original,
		}, nil
	})

	return ag
}
