package state

import "time"

// Task status values written by the coordinator and the pipeline agents.
// The coordinator owns "initialized", the per-step transitions and the
// terminal "completed"/"failed"; each agent owns its own *_completed marker.
const (
	StatusInitialized         = "initialized"
	StatusRefiningTopic       = "refining_topic"
	StatusTopicRefined        = "topic_refined"
	StatusGeneratingQuestions = "generating_questions"
	StatusQuestionsGenerated  = "questions_generated"
	StatusSearching           = "searching"
	StatusSearchCompleted     = "search_completed"
	StatusAnalyzing           = "analyzing"
	StatusAnalysisCompleted   = "analysis_completed"
	StatusGeneratingReport    = "generating_report"
	StatusReportCompleted     = "report_completed"
	StatusCompleted           = "completed"
	StatusFailed              = "failed"
)

// LogEntry is one append-only record of an agent action on a task.
type LogEntry struct {
	Agent     string         `json:"agent"`
	AgentID   string         `json:"agent_id"`
	Action    string         `json:"action"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}

// TaskState is the persisted record of one research workflow: topic fields,
// accumulated lists, scalar progress fields and the agent log. It is the
// single source of truth through which pipeline steps observe each other's
// output. Exactly one writer mutates it at any instant; the coordinator
// enforces this by sequencing agent calls, not by locking.
type TaskState struct {
	TaskID            string     `json:"task_id"`
	OriginalTopic     string     `json:"original_topic"`
	Topic             string     `json:"topic"`
	ResearchQuestions []string   `json:"research_questions"`
	SearchQueries     []string   `json:"search_queries"`
	SearchResults     []string   `json:"search_results"`
	KeyFindings       []string   `json:"key_findings"`
	Iteration         int        `json:"iteration"`
	MaxIterations     int        `json:"max_iterations"`
	QualityScore      float64    `json:"quality_score"`
	FinalReport       string     `json:"final_report"`
	Status            string     `json:"status"`
	CurrentAgent      string     `json:"current_agent"`
	AgentLogs         []LogEntry `json:"agent_logs"`
	Error             string     `json:"error,omitempty"`
}

// NewTaskState creates the initial record for a task: all lists empty,
// status "initialized".
func NewTaskState(taskID, topic string, maxIterations int) *TaskState {
	return &TaskState{
		TaskID:            taskID,
		OriginalTopic:     topic,
		Topic:             topic,
		ResearchQuestions: []string{},
		SearchQueries:     []string{},
		SearchResults:     []string{},
		KeyFindings:       []string{},
		Iteration:         0,
		MaxIterations:     maxIterations,
		QualityScore:      0.0,
		Status:            StatusInitialized,
		AgentLogs:         []LogEntry{},
	}
}

// IsTerminal reports whether the task has reached a terminal status.
// Pollers must check Status before trusting the completeness of the other
// fields; a failed task is shaped like a completed one apart from Status
// and Error.
func (s *TaskState) IsTerminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}
