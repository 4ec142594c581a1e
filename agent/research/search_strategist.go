package research

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BaSui01/researchflow/a2a"
	"github.com/BaSui01/researchflow/agent"
	"github.com/BaSui01/researchflow/llm"
	"github.com/BaSui01/researchflow/search"
	"github.com/BaSui01/researchflow/state"
)

// defaultMaxResults is the per-query result cap when the caller passes none.
const defaultMaxResults = 2

// NewSearchStrategist builds the agent that executes web searches for
// unanswered research questions. It is the only agent to advance the
// iteration counter, so one increment marks one full evidence round.
func NewSearchStrategist(store state.Store, provider llm.Provider, searcher search.Provider, logger *zap.Logger) *agent.Agent {
	log := nopLogger(logger)
	ag := agent.New(agent.Config{
		ID:        AgentIDSearchStrategist,
		Name:      NameSearchStrategist,
		Role:      "Information Retrieval Specialist",
		Expertise: []string{"Designing search strategies and executing queries"},
		Logger:    log,
	})

	persona := systemPrompt(NameSearchStrategist, "Information Retrieval Specialist",
		"Designing search strategies and executing queries")

	ag.Register(a2a.Capability{
		Name:        ActionExecuteSearch,
		Description: "Execute web searches for research questions",
		Parameters: map[string]any{
			taskIDParam: map[string]any{
				"type":        "string",
				"description": "Unique task identifier",
				"required":    true,
			},
			"max_results": map[string]any{
				"type":        "integer",
				"description": "Maximum results per query",
				"default":     defaultMaxResults,
			},
		},
		Returns: map[string]any{
			"results_count": map[string]any{
				"type":        "integer",
				"description": "Total number of results found",
			},
			"queries_processed": map[string]any{
				"type":        "integer",
				"description": "Number of queries processed",
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

		maxResults := defaultMaxResults
		if v, ok := params["max_results"].(float64); ok && v > 0 {
			maxResults = int(v)
		} else if v, ok := params["max_results"].(int); ok && v > 0 {
			maxResults = v
		}

		answered := make(map[string]bool, len(task.SearchQueries))
		for _, q := range task.SearchQueries {
			answered[q] = true
		}

		newResults := 0
		queriesProcessed := 0
		for _, question := range task.ResearchQuestions {
			if answered[question] {
				continue
			}
			results, err := searcher.Search(ctx, question, maxResults)
			if err != nil {
				// A failed query is skipped, not fatal; later rounds retry it.
				log.Warn("search failed",
					zap.String("task_id", id),
					zap.String("query", question),
					zap.Error(err))
				continue
			}
			for _, r := range results {
				task.SearchResults = append(task.SearchResults, fmt.Sprintf("**%s**\n%s", r.Title, r.Body))
				newResults++
			}
			task.SearchQueries = append(task.SearchQueries, question)
			answered[question] = true
			queriesProcessed++
		}

		task.Iteration++
		task.Status = state.StatusSearchCompleted
		task.CurrentAgent = NameSearchStrategist
		if err := store.Set(ctx, id, task); err != nil {
			return nil, err
		}
		if err := store.AppendLog(ctx, id, logEntry(NameSearchStrategist, AgentIDSearchStrategist, "executed_searches", map[string]any{
			"queries_processed": queriesProcessed,
			"new_results":       newResults,
		})); err != nil {
			return nil, err
		}

		return map[string]any{
			"results_count":     newResults,
			"queries_processed": queriesProcessed,
			"total_results":     len(task.SearchResults),
		}, nil
	})

	ag.Register(a2a.Capability{
		Name:        ActionOptimizeQuery,
		Description: "Optimize a search query for better results",
		Parameters: map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Query to optimize",
				"required":    true,
			},
		},
		Returns: map[string]any{
			"optimized_query": map[string]any{
				"type":        "string",
				"description": "Optimized search query",
			},
		},
	}, func(ctx context.Context, params, _ map[string]any) (map[string]any, error) {
		query, _ := params["query"].(string)
		if query == "" {
			return nil, fmt.Errorf("query is required")
		}

		prompt := fmt.Sprintf(`Convert this research question into an optimal search query:
'%s'

Return ONLY the search query (no explanation).`, query)

		optimized, err := invoke(ctx, provider, persona, prompt)
		if err != nil {
			return nil, err
		}

		return map[string]any{
			"optimized_query": optimized,
			"original_query":  query,
		}, nil
	})

	return ag
}
