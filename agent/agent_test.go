package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/researchflow/a2a"
)

func newTestAgent() *Agent {
	ag := New(Config{
		ID:        "agent://echo",
		Name:      "Echo Agent",
		Role:      "Echoing",
		Expertise: []string{"echoing"},
	})
	ag.Register(a2a.Capability{
		Name:        "echo",
		Description: "Echoes its parameters back.",
		Parameters:  map[string]any{"value": "any value"},
		Returns:     map[string]any{"value": "the same value"},
	}, func(ctx context.Context, params, actionCtx map[string]any) (map[string]any, error) {
		return map[string]any{"value": params["value"], "task_id": actionCtx["task_id"]}, nil
	})
	ag.Register(a2a.Capability{
		Name:        "explode",
		Description: "Always fails.",
	}, func(ctx context.Context, params, actionCtx map[string]any) (map[string]any, error) {
		return nil, errors.New("boom")
	})
	return ag
}

func TestAgent_Process_ActionCompleted(t *testing.T) {
	ag := newTestAgent()
	req := a2a.NewActionRequest("agent://echo", "agent://caller", "echo",
		map[string]any{"value": "hello"},
		map[string]any{"task_id": "t-1"})

	reply := ag.Process(context.Background(), req)

	assert.Equal(t, "agent://caller", reply.To)
	assert.Equal(t, "agent://echo", reply.From)
	assert.Equal(t, req.ID, reply.ReplyTo)

	resp, ok := reply.Content.(*a2a.ActionResponse)
	require.True(t, ok)
	assert.Equal(t, a2a.StatusCompleted, resp.Status)
	assert.Equal(t, "echo", resp.Action)
	assert.Equal(t, "hello", resp.Result["value"])
	assert.Equal(t, "t-1", resp.Result["task_id"])
	assert.Empty(t, resp.Error)
}

func TestAgent_Process_ActionFailed(t *testing.T) {
	ag := newTestAgent()
	req := a2a.NewActionRequest("agent://echo", "agent://caller", "explode", nil, nil)

	reply := ag.Process(context.Background(), req)

	resp, ok := reply.Content.(*a2a.ActionResponse)
	require.True(t, ok)
	assert.Equal(t, a2a.StatusFailed, resp.Status)
	assert.Equal(t, "boom", resp.Error)
}

func TestAgent_Process_UnknownAction(t *testing.T) {
	ag := newTestAgent()
	req := a2a.NewActionRequest("agent://echo", "agent://caller", "no_such_action", nil, nil)

	reply := ag.Process(context.Background(), req)

	resp, ok := reply.Content.(*a2a.ActionResponse)
	require.True(t, ok)
	assert.Equal(t, a2a.StatusFailed, resp.Status)
	assert.Contains(t, resp.Error, "unknown action")
	assert.Contains(t, resp.Error, "no_such_action")
}

func TestAgent_Process_CapabilityRequest(t *testing.T) {
	ag := newTestAgent()
	req := a2a.NewCapabilityRequest("agent://echo", "agent://caller")

	reply := ag.Process(context.Background(), req)

	resp, ok := reply.Content.(*a2a.CapabilityResponse)
	require.True(t, ok)
	require.Len(t, resp.Capabilities, 2)
	// Sorted by name.
	assert.Equal(t, "echo", resp.Capabilities[0].Name)
	assert.Equal(t, "explode", resp.Capabilities[1].Name)
	assert.Equal(t, "agent://echo", resp.Agent.ID)
	assert.Equal(t, "Echo Agent", resp.Agent.Name)
}

func TestAgent_Process_UnsupportedVariants(t *testing.T) {
	ag := newTestAgent()

	tests := []struct {
		name    string
		content a2a.Content
	}{
		{"action response", &a2a.ActionResponse{Status: a2a.StatusCompleted}},
		{"capability response", &a2a.CapabilityResponse{}},
		{"error", &a2a.ErrorContent{Code: "X", Message: "y"}},
		{"status update", &a2a.StatusUpdate{Status: a2a.StatusProcessing}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := a2a.NewMessage("agent://echo", "agent://caller", tt.content)
			reply := ag.Process(context.Background(), msg)

			errContent, ok := reply.Content.(*a2a.ErrorContent)
			require.True(t, ok)
			assert.Equal(t, a2a.CodeUnsupportedMessageType, errContent.Code)
		})
	}
}

func TestAgent_Descriptor(t *testing.T) {
	ag := newTestAgent()
	desc := ag.Descriptor()

	assert.Equal(t, "agent://echo", desc.ID)
	assert.Equal(t, "Echo Agent", desc.Name)
	assert.Equal(t, "1.0.0", desc.Version)
	assert.Len(t, desc.Capabilities, 2)
	assert.Equal(t, "Echoing", desc.Metadata["role"])
}

func TestAgent_Register_Replaces(t *testing.T) {
	ag := New(Config{ID: "agent://x", Name: "X"})
	ag.Register(a2a.Capability{Name: "a"}, func(ctx context.Context, params, actionCtx map[string]any) (map[string]any, error) {
		return map[string]any{"v": 1}, nil
	})
	ag.Register(a2a.Capability{Name: "a"}, func(ctx context.Context, params, actionCtx map[string]any) (map[string]any, error) {
		return map[string]any{"v": 2}, nil
	})

	require.Len(t, ag.Capabilities(), 1)

	reply := ag.Process(context.Background(), a2a.NewActionRequest("agent://x", "agent://c", "a", nil, nil))
	resp := reply.Content.(*a2a.ActionResponse)
	assert.Equal(t, 2, resp.Result["v"])
}
