// Package research builds the five pipeline agents. Each constructor wires a
// specialist's actions onto a plain agent: handlers read the shared task
// record, call their external capability, write the updated record back and
// append a log entry. All state flows through the store; action results only
// summarize what happened.
package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/researchflow/llm"
	"github.com/BaSui01/researchflow/state"
)

// Agent URIs. These are logical addresses; the directory maps them to
// transport endpoints.
const (
	AgentIDCoordinator       = "agent://coordinator"
	AgentIDTopicRefiner      = "agent://topic-refiner"
	AgentIDQuestionArchitect = "agent://question-architect"
	AgentIDSearchStrategist  = "agent://search-strategist"
	AgentIDDataAnalyst       = "agent://data-analyst"
	AgentIDReportWriter      = "agent://report-writer"
)

// Display names.
const (
	NameTopicRefiner      = "Dr. Topic Refiner"
	NameQuestionArchitect = "Prof. Question Architect"
	NameSearchStrategist  = "Agent Search Strategist"
	NameDataAnalyst       = "Dr. Data Analyst"
	NameReportWriter      = "Dr. Report Writer"
)

// Action names.
const (
	ActionRefineTopic       = "refine_topic"
	ActionGenerateQuestions = "generate_questions"
	ActionExecuteSearch     = "execute_search"
	ActionOptimizeQuery     = "optimize_query"
	ActionAnalyzeResults    = "analyze_results"
	ActionGenerateReport    = "generate_report"
)

// taskIDParam is the required action parameter carrying the task key.
const taskIDParam = "task_id"

// systemPrompt frames every completion with the agent's persona.
func systemPrompt(name, role, expertise string) string {
	return fmt.Sprintf(`You are %s, a specialized AI agent.
Role: %s
Expertise: %s

You work as part of a multi-agent research system. Focus on your specific
role and provide high-quality output.`, name, role, expertise)
}

// taskID extracts and validates the task_id parameter.
func taskID(params map[string]any) (string, error) {
	id, _ := params[taskIDParam].(string)
	if id == "" {
		return "", fmt.Errorf("%s is required", taskIDParam)
	}
	return id, nil
}

// loadTask fetches the task record, mapping a miss to a handler-level error.
func loadTask(ctx context.Context, store state.Store, id string) (*state.TaskState, error) {
	task, err := store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("task not found: %s", id)
	}
	return task, nil
}

// invoke runs a completion with the agent's persona prefixed.
func invoke(ctx context.Context, provider llm.Provider, persona, prompt string) (string, error) {
	out, err := provider.Invoke(ctx, persona+"\n\n"+prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// numberedLines splits a completion into at most max cleaned lines,
// stripping leading list numbering.
func numberedLines(response string, max int) []string {
	lines := strings.Split(strings.TrimSpace(response), "\n")
	out := make([]string, 0, max)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "0123456789. ")
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == max {
			break
		}
	}
	return out
}

// logEntry builds a log record stamped with the agent's identity.
func logEntry(agentName, agentID, action string, details map[string]any) state.LogEntry {
	return state.LogEntry{
		Agent:     agentName,
		AgentID:   agentID,
		Action:    action,
		Timestamp: time.Now().UTC(),
		Details:   details,
	}
}

func nopLogger(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
