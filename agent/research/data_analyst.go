package research

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/researchflow/a2a"
	"github.com/BaSui01/researchflow/agent"
	"github.com/BaSui01/researchflow/llm"
	"github.com/BaSui01/researchflow/state"
)

const (
	// findingsPerRound caps how many findings one analysis round yields.
	findingsPerRound = 5
	// analysisResultWindow caps how many search results feed one analysis.
	analysisResultWindow = 15
)

// qualityScore rates the research so far. Each finding is worth more than
// each raw result, and the score saturates at 1.0.
func qualityScore(findingsCount, resultsCount int) float64 {
	score := float64(findingsCount)*0.15 + float64(resultsCount)*0.02
	if score > 1.0 {
		return 1.0
	}
	return score
}

// NewDataAnalyst builds the agent that distills search results into key
// findings and scores the research quality.
func NewDataAnalyst(store state.Store, provider llm.Provider, logger *zap.Logger) *agent.Agent {
	ag := agent.New(agent.Config{
		ID:        AgentIDDataAnalyst,
		Name:      NameDataAnalyst,
		Role:      "Research Data Analyst",
		Expertise: []string{"Extracting insights and identifying patterns in research data"},
		Logger:    nopLogger(logger),
	})

	persona := systemPrompt(NameDataAnalyst, "Research Data Analyst",
		"Extracting insights and identifying patterns in research data")

	ag.Register(a2a.Capability{
		Name:        ActionAnalyzeResults,
		Description: "Analyze search results and extract key findings",
		Parameters: map[string]any{
			taskIDParam: map[string]any{
				"type":        "string",
				"description": "Unique task identifier",
				"required":    true,
			},
		},
		Returns: map[string]any{
			"findings": map[string]any{
				"type":        "array",
				"description": "Extracted key findings",
				"items":       map[string]any{"type": "string"},
			},
			"quality_score": map[string]any{
				"type":        "number",
				"description": "Quality score of the research (0-1)",
			},
			"findings_count": map[string]any{
				"type":        "integer",
				"description": "Number of findings extracted",
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

		var findings []string
		var score float64
		if len(task.SearchResults) == 0 {
			findings = []string{"No data available for analysis"}
			score = 0.0
		} else {
			window := task.SearchResults
			if len(window) > analysisResultWindow {
				window = window[:analysisResultWindow]
			}

			prompt := fmt.Sprintf(`Topic: %s

Analyze these search results and extract key findings:

%s

Your analysis should:
1. Identify the %d most important facts or insights
2. Ensure findings are specific and well-supported
3. Avoid redundancy
4. Focus on actionable information

Return ONLY the findings, numbered 1-%d, one per line.`,
				task.Topic, strings.Join(window, "\n\n"), findingsPerRound, findingsPerRound)

			response, err := invoke(ctx, provider, persona, prompt)
			if err != nil {
				return nil, err
			}
			findings = numberedLines(response, findingsPerRound)
			score = qualityScore(len(findings), len(task.SearchResults))
		}

		task.KeyFindings = append(task.KeyFindings, findings...)
		task.QualityScore = score
		task.Status = state.StatusAnalysisCompleted
		task.CurrentAgent = NameDataAnalyst
		if err := store.Set(ctx, id, task); err != nil {
			return nil, err
		}
		if err := store.AppendLog(ctx, id, logEntry(NameDataAnalyst, AgentIDDataAnalyst, "analyzed_data", map[string]any{
			"findings_extracted": len(findings),
			"quality_score":      score,
		})); err != nil {
			return nil, err
		}

		return map[string]any{
			"findings":       findings,
			"quality_score":  score,
			"findings_count": len(findings),
			"total_findings": len(task.KeyFindings),
		}, nil
	})

	return ag
}
