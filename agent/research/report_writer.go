package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/researchflow/a2a"
	"github.com/BaSui01/researchflow/agent"
	"github.com/BaSui01/researchflow/llm"
	"github.com/BaSui01/researchflow/state"
)

// NewReportWriter builds the agent that synthesizes the accumulated research
// into the final report.
func NewReportWriter(store state.Store, provider llm.Provider, logger *zap.Logger) *agent.Agent {
	ag := agent.New(agent.Config{
		ID:        AgentIDReportWriter,
		Name:      NameReportWriter,
		Role:      "Research Report Specialist",
		Expertise: []string{"Synthesizing findings into clear, structured reports"},
		Logger:    nopLogger(logger),
	})

	persona := systemPrompt(NameReportWriter, "Research Report Specialist",
		"Synthesizing findings into clear, structured reports")

	ag.Register(a2a.Capability{
		Name:        ActionGenerateReport,
		Description: "Generate comprehensive research report",
		Parameters: map[string]any{
			taskIDParam: map[string]any{
				"type":        "string",
				"description": "Unique task identifier",
				"required":    true,
			},
		},
		Returns: map[string]any{
			"report": map[string]any{
				"type":        "string",
				"description": "Formatted research report",
			},
			"report_length": map[string]any{
				"type":        "integer",
				"description": "Length of report in characters",
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

		report, err := invoke(ctx, provider, persona, reportPrompt(task))
		if err != nil {
			return nil, err
		}
		report += metadataFooter(task)

		task.FinalReport = report
		task.Status = state.StatusReportCompleted
		task.CurrentAgent = NameReportWriter
		if err := store.Set(ctx, id, task); err != nil {
			return nil, err
		}
		if err := store.AppendLog(ctx, id, logEntry(NameReportWriter, AgentIDReportWriter, "generated_report", map[string]any{
			"report_length": len(report),
		})); err != nil {
			return nil, err
		}

		return map[string]any{
			"report":        report,
			"report_length": len(report),
		}, nil
	})

	return ag
}

func reportPrompt(task *state.TaskState) string {
	return fmt.Sprintf(`Create a professional research report.

Topic: %s

Research Questions Investigated:
%s

Key Findings from Analysis:
%s

Research Scope:
- %d sources consulted
- %d research iterations completed
- Quality score: %.2f

Generate a well-structured report with:

# Executive Summary
[2-3 sentence overview]

# Research Methodology
[Brief description of approach]

# Key Findings
[Detailed findings with context]

# Conclusions and Insights
[Synthesis and implications]

# Recommendations
[If applicable, suggest next steps]

Write in a professional, academic tone. Be comprehensive but concise.`,
		task.Topic,
		bulletList(task.ResearchQuestions),
		bulletList(task.KeyFindings),
		len(task.SearchResults),
		task.Iteration,
		task.QualityScore)
}

// metadataFooter appends the provenance block every report carries.
func metadataFooter(task *state.TaskState) string {
	var b strings.Builder
	b.WriteString("\n\n---\n## Research Metadata\n\n")
	b.WriteString("**Research Protocol:** A2A Multi-Agent System\n\n")
	b.WriteString("**Participating Agents:**\n")
	b.WriteString("- " + NameTopicRefiner + " (Topic Analysis)\n")
	b.WriteString("- " + NameQuestionArchitect + " (Question Design)\n")
	b.WriteString("- " + NameSearchStrategist + " (Information Retrieval)\n")
	b.WriteString("- " + NameDataAnalyst + " (Analysis & Synthesis)\n")
	b.WriteString("- " + NameReportWriter + " (Report Generation)\n\n")
	b.WriteString("**Research Statistics:**\n")
	fmt.Fprintf(&b, "- Original Topic: %s\n", task.OriginalTopic)
	fmt.Fprintf(&b, "- Refined Topic: %s\n", task.Topic)
	fmt.Fprintf(&b, "- Questions Generated: %d\n", len(task.ResearchQuestions))
	fmt.Fprintf(&b, "- Sources Consulted: %d\n", len(task.SearchResults))
	fmt.Fprintf(&b, "- Key Findings: %d\n", len(task.KeyFindings))
	fmt.Fprintf(&b, "- Research Iterations: %d\n", task.Iteration)
	fmt.Fprintf(&b, "- Quality Score: %.2f/1.00\n", task.QualityScore)
	fmt.Fprintf(&b, "- Generated: %s\n", time.Now().UTC().Format("2006-01-02 15:04:05"))
	b.WriteString("- Protocol: A2A v1.0\n")
	return b.String()
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "• (none)"
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}
