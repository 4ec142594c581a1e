// Package agent implements the message-handling side of the protocol: a
// registry of named actions, the dispatch contract that turns inbound
// envelopes into replies, and an HTTP server exposing the standard agent
// surface.
package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/BaSui01/researchflow/a2a"
)

// ErrUnknownAction indicates the requested action has no registered handler.
var ErrUnknownAction = errors.New("agent: unknown action")

// ActionFunc handles one action request. params carries the caller's
// arguments and actionCtx the caller's ambient context (task ID, topic).
// A non-nil error marks the action failed; handlers never write the failure
// envelope themselves.
type ActionFunc func(ctx context.Context, params, actionCtx map[string]any) (map[string]any, error)

// Config describes an agent's identity.
type Config struct {
	// ID is the agent URI, e.g. "agent://topic-refiner".
	ID string
	// Name is the human-readable display name.
	Name string
	// Role describes what the agent does.
	Role string
	// Expertise lists the agent's specialties, surfaced in its descriptor.
	Expertise []string
	// Version is reported in the descriptor; defaults to "1.0.0".
	Version string
	// Logger is the logger instance.
	Logger *zap.Logger
}

// Agent owns a set of named actions and processes protocol messages
// addressed to it.
type Agent struct {
	id        string
	name      string
	role      string
	expertise []string
	version   string
	logger    *zap.Logger

	mu      sync.RWMutex
	actions map[string]registeredAction
}

type registeredAction struct {
	capability a2a.Capability
	fn         ActionFunc
}

// New creates an agent with no registered actions.
func New(config Config) *Agent {
	if config.Version == "" {
		config.Version = "1.0.0"
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &Agent{
		id:        config.ID,
		name:      config.Name,
		role:      config.Role,
		expertise: config.Expertise,
		version:   config.Version,
		logger:    config.Logger,
		actions:   make(map[string]registeredAction),
	}
}

// ID returns the agent URI.
func (a *Agent) ID() string { return a.id }

// Name returns the display name.
func (a *Agent) Name() string { return a.name }

// Register binds a handler to the capability's name, replacing any previous
// handler for that name.
func (a *Agent) Register(capability a2a.Capability, fn ActionFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions[capability.Name] = registeredAction{capability: capability, fn: fn}
}

// Capabilities returns the registered capabilities sorted by name.
func (a *Agent) Capabilities() []a2a.Capability {
	a.mu.RLock()
	defer a.mu.RUnlock()

	caps := make([]a2a.Capability, 0, len(a.actions))
	for _, action := range a.actions {
		caps = append(caps, action.capability)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i].Name < caps[j].Name })
	return caps
}

// Descriptor returns the agent's self-description.
func (a *Agent) Descriptor() *a2a.AgentDescriptor {
	return &a2a.AgentDescriptor{
		ID:           a.id,
		Name:         a.name,
		Version:      a.version,
		Capabilities: a.Capabilities(),
		Metadata: map[string]any{
			"role":      a.role,
			"expertise": a.expertise,
		},
	}
}

// Process handles one inbound message and always returns a reply envelope.
// Handler failures become failed action responses; they never escape as
// errors or panics.
func (a *Agent) Process(ctx context.Context, msg *a2a.Message) *a2a.Message {
	switch content := msg.Content.(type) {
	case *a2a.ActionRequest:
		return a.processAction(ctx, msg, content)
	case *a2a.CapabilityRequest:
		return msg.Reply(&a2a.CapabilityResponse{
			Capabilities: a.Capabilities(),
			Agent:        *a.Descriptor(),
		})
	case *a2a.ActionResponse, *a2a.CapabilityResponse, *a2a.ErrorContent, *a2a.StatusUpdate:
		// Push variants carry no request to answer; an agent receiving one
		// unsolicited reports it as unsupported.
		return msg.Reply(&a2a.ErrorContent{
			Code:    a2a.CodeUnsupportedMessageType,
			Message: fmt.Sprintf("unsupported message content: %s", content.ContentType()),
		})
	default:
		return msg.Reply(&a2a.ErrorContent{
			Code:    a2a.CodeUnsupportedMessageType,
			Message: "unsupported message content",
		})
	}
}

func (a *Agent) processAction(ctx context.Context, msg *a2a.Message, req *a2a.ActionRequest) *a2a.Message {
	a.mu.RLock()
	action, ok := a.actions[req.Action]
	a.mu.RUnlock()

	if !ok {
		a.logger.Warn("unknown action requested",
			zap.String("agent_id", a.id),
			zap.String("action", req.Action),
			zap.String("from", msg.From))
		return msg.Reply(&a2a.ActionResponse{
			Action: req.Action,
			Status: a2a.StatusFailed,
			Error:  fmt.Sprintf("%v: %s", ErrUnknownAction, req.Action),
		})
	}

	a.logger.Info("processing action",
		zap.String("agent_id", a.id),
		zap.String("action", req.Action),
		zap.String("from", msg.From))

	result, err := action.fn(ctx, req.Parameters, req.Context)
	if err != nil {
		a.logger.Error("action failed",
			zap.String("agent_id", a.id),
			zap.String("action", req.Action),
			zap.Error(err))
		return msg.Reply(&a2a.ActionResponse{
			Action: req.Action,
			Status: a2a.StatusFailed,
			Error:  err.Error(),
		})
	}

	return msg.Reply(&a2a.ActionResponse{
		Action: req.Action,
		Status: a2a.StatusCompleted,
		Result: result,
	})
}
