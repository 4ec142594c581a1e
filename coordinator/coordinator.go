// Package coordinator implements the workflow engine: it owns the pipeline
// order, sequences agent calls over the protocol client and applies the
// continuation policy between evidence rounds. Agents never call each other;
// all cross-agent data flows through the shared task store.
package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/researchflow/a2a"
	"github.com/BaSui01/researchflow/agent/research"
	"github.com/BaSui01/researchflow/state"
)

// Config holds coordinator configuration.
type Config struct {
	// AgentID is the coordinator's own URI, used as the sender address.
	AgentID string
	// DefaultMaxIterations bounds the research loop when a request does
	// not specify one.
	DefaultMaxIterations int
	// StepTimeout bounds one agent call, external-capability latency
	// included.
	StepTimeout time.Duration
	// SearchMaxResults is passed to the search step as the per-query cap.
	SearchMaxResults int
	// Logger is the logger instance.
	Logger *zap.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		AgentID:              research.AgentIDCoordinator,
		DefaultMaxIterations: 2,
		StepTimeout:          120 * time.Second,
		SearchMaxResults:     2,
	}
}

// Coordinator drives the research pipeline over the protocol client.
type Coordinator struct {
	config    Config
	client    a2a.Client
	directory *Directory
	store     state.Store
	metrics   *Metrics
	logger    *zap.Logger
}

// pipelineAgents are the workers every workflow needs resolvable before it
// starts.
var pipelineAgents = []string{
	research.AgentIDTopicRefiner,
	research.AgentIDQuestionArchitect,
	research.AgentIDSearchStrategist,
	research.AgentIDDataAnalyst,
	research.AgentIDReportWriter,
}

// New creates a coordinator. It fails fast when the directory is missing any
// pipeline agent; a hole would otherwise only surface mid-workflow.
func New(config Config, client a2a.Client, directory *Directory, store state.Store, metrics *Metrics) (*Coordinator, error) {
	defaults := DefaultConfig()
	if config.AgentID == "" {
		config.AgentID = defaults.AgentID
	}
	if config.DefaultMaxIterations <= 0 {
		config.DefaultMaxIterations = defaults.DefaultMaxIterations
	}
	if config.StepTimeout <= 0 {
		config.StepTimeout = defaults.StepTimeout
	}
	if config.SearchMaxResults <= 0 {
		config.SearchMaxResults = defaults.SearchMaxResults
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	for _, uri := range pipelineAgents {
		if _, err := directory.Resolve(uri); err != nil {
			return nil, err
		}
	}

	return &Coordinator{
		config:    config,
		client:    client,
		directory: directory,
		store:     store,
		metrics:   metrics,
		logger:    config.Logger,
	}, nil
}

// Directory returns the agent directory.
func (c *Coordinator) Directory() *Directory { return c.directory }

// StartResearch initializes a task record and launches the workflow in the
// background. It returns the task ID immediately; callers poll the task
// record for progress.
func (c *Coordinator) StartResearch(ctx context.Context, topic string, maxIterations int) (string, error) {
	if topic == "" {
		return "", fmt.Errorf("%w: empty topic", state.ErrInvalidInput)
	}
	if maxIterations <= 0 {
		maxIterations = c.config.DefaultMaxIterations
	}

	taskID := uuid.New().String()
	task := state.NewTaskState(taskID, topic, maxIterations)
	if err := c.store.Set(ctx, taskID, task); err != nil {
		return "", err
	}

	c.logger.Info("research task started",
		zap.String("task_id", taskID),
		zap.String("topic", topic),
		zap.Int("max_iterations", maxIterations))

	go c.runDetached(taskID)

	return taskID, nil
}

// runDetached runs the workflow on a background context; the HTTP request
// that started the task has already returned.
func (c *Coordinator) runDetached(taskID string) {
	c.metrics.taskStarted()
	defer c.metrics.taskFinished()

	if err := c.RunWorkflow(context.Background(), taskID); err != nil {
		c.logger.Error("workflow failed",
			zap.String("task_id", taskID),
			zap.Error(err))
	}
}

// RunWorkflow executes the full pipeline for an initialized task: refine the
// topic, then loop question generation, search and analysis until the
// continuation policy finalizes, then generate the report. Steps run
// strictly one at a time; any step failure marks the task failed and stops
// the workflow without retry.
func (c *Coordinator) RunWorkflow(ctx context.Context, taskID string) error {
	task, err := c.store.Get(ctx, taskID)
	if err != nil {
		return err
	}
	maxIterations := task.MaxIterations
	if maxIterations <= 0 {
		maxIterations = c.config.DefaultMaxIterations
	}

	if err := c.step(ctx, taskID, state.StatusRefiningTopic, research.NameTopicRefiner,
		research.AgentIDTopicRefiner, research.ActionRefineTopic, nil); err != nil {
		return c.fail(ctx, taskID, err)
	}

	for round := 0; round < maxIterations; round++ {
		if err := c.step(ctx, taskID, state.StatusGeneratingQuestions, research.NameQuestionArchitect,
			research.AgentIDQuestionArchitect, research.ActionGenerateQuestions, nil); err != nil {
			return c.fail(ctx, taskID, err)
		}

		if err := c.step(ctx, taskID, state.StatusSearching, research.NameSearchStrategist,
			research.AgentIDSearchStrategist, research.ActionExecuteSearch,
			map[string]any{"max_results": c.config.SearchMaxResults}); err != nil {
			return c.fail(ctx, taskID, err)
		}

		if err := c.step(ctx, taskID, state.StatusAnalyzing, research.NameDataAnalyst,
			research.AgentIDDataAnalyst, research.ActionAnalyzeResults, nil); err != nil {
			return c.fail(ctx, taskID, err)
		}

		task, err = c.store.Get(ctx, taskID)
		if err != nil {
			return c.fail(ctx, taskID, err)
		}
		if Decide(task) == DecisionFinalize {
			c.logger.Info("finalizing research",
				zap.String("task_id", taskID),
				zap.Int("iteration", task.Iteration),
				zap.Float64("quality_score", task.QualityScore),
				zap.Int("findings", len(task.KeyFindings)))
			break
		}
	}

	if err := c.step(ctx, taskID, state.StatusGeneratingReport, research.NameReportWriter,
		research.AgentIDReportWriter, research.ActionGenerateReport, nil); err != nil {
		return c.fail(ctx, taskID, err)
	}

	if err := c.markStatus(ctx, taskID, func(task *state.TaskState) {
		task.Status = state.StatusCompleted
	}); err != nil {
		return err
	}

	c.logger.Info("workflow completed", zap.String("task_id", taskID))
	return nil
}

// step marks the task's transition, then calls one agent action. The status
// and current agent are written before the call so pollers always see who is
// working, even if the step dies.
func (c *Coordinator) step(ctx context.Context, taskID, status, agentName, agentURI, action string, extraParams map[string]any) error {
	if err := c.markStatus(ctx, taskID, func(task *state.TaskState) {
		task.Status = status
		task.CurrentAgent = agentName
	}); err != nil {
		return err
	}

	params := map[string]any{"task_id": taskID}
	for k, v := range extraParams {
		params[k] = v
	}

	start := time.Now()
	result, err := c.callAction(ctx, agentURI, action, params)
	elapsed := time.Since(start)

	if err != nil {
		c.metrics.observeStep(agentURI, action, "failed", elapsed)
		return err
	}
	c.metrics.observeStep(agentURI, action, "completed", elapsed)

	c.logger.Info("step completed",
		zap.String("task_id", taskID),
		zap.String("agent", agentURI),
		zap.String("action", action),
		zap.Duration("elapsed", elapsed),
		zap.Any("result", result))
	return nil
}

// callAction sends one action request and interprets the reply envelope.
// Failed responses, protocol errors and unexpected reply kinds all surface
// as errors; only a completed response yields a result.
func (c *Coordinator) callAction(ctx context.Context, agentURI, action string, params map[string]any) (map[string]any, error) {
	baseURL, err := c.directory.Resolve(agentURI)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.StepTimeout)
	defer cancel()

	msg := a2a.NewActionRequest(agentURI, c.config.AgentID, action, params, nil)
	reply, err := c.client.Send(ctx, baseURL, msg)
	if err != nil {
		return nil, err
	}

	switch content := reply.Content.(type) {
	case *a2a.ActionResponse:
		if content.Status == a2a.StatusCompleted {
			return content.Result, nil
		}
		errText := content.Error
		if errText == "" {
			errText = "action failed"
		}
		return nil, fmt.Errorf("action %s failed: %s", action, errText)
	case *a2a.ErrorContent:
		return nil, fmt.Errorf("agent error from %s: %s", agentURI, content.Message)
	default:
		return nil, fmt.Errorf("%w: unexpected reply content %s from %s",
			a2a.ErrInvalidMessage, content.ContentType(), agentURI)
	}
}

// fail marks the task failed with the step error and returns it. The record
// keeps whichever current_agent was working when the step died.
func (c *Coordinator) fail(ctx context.Context, taskID string, cause error) error {
	errMsg := fmt.Sprintf("workflow error: %v", cause)
	c.logger.Error("workflow step failed",
		zap.String("task_id", taskID),
		zap.Error(cause))

	if err := c.markStatus(ctx, taskID, func(task *state.TaskState) {
		task.Status = state.StatusFailed
		task.Error = errMsg
	}); err != nil {
		c.logger.Error("failed to record workflow failure",
			zap.String("task_id", taskID),
			zap.Error(err))
	}
	return cause
}

func (c *Coordinator) markStatus(ctx context.Context, taskID string, mutate func(*state.TaskState)) error {
	task, err := c.store.Get(ctx, taskID)
	if err != nil {
		return err
	}
	mutate(task)
	return c.store.Set(ctx, taskID, task)
}
