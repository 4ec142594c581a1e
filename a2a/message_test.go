package a2a

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg := NewMessage("agent://topic-refiner", "agent://coordinator", &CapabilityRequest{})

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "agent://topic-refiner", msg.To)
	assert.Equal(t, "agent://coordinator", msg.From)
	assert.False(t, msg.Timestamp.IsZero())
	assert.Empty(t, msg.ReplyTo)
	require.NoError(t, msg.Validate())
}

func TestNewActionRequest(t *testing.T) {
	msg := NewActionRequest("agent://data-analyst", "agent://coordinator", "analyze_results",
		map[string]any{"task_id": "t-1"}, nil)

	req, ok := msg.Content.(*ActionRequest)
	require.True(t, ok)
	assert.Equal(t, "analyze_results", req.Action)
	assert.Equal(t, "t-1", req.Parameters["task_id"])
	assert.NotNil(t, req.Context)
}

func TestMessage_Reply(t *testing.T) {
	msg := NewActionRequest("agent://topic-refiner", "agent://coordinator", "refine_topic",
		map[string]any{"task_id": "t-1"}, nil)

	reply := msg.Reply(&ActionResponse{
		Action: "refine_topic",
		Result: map[string]any{"refined_topic": "x"},
		Status: StatusCompleted,
	})

	assert.Equal(t, msg.From, reply.To)
	assert.Equal(t, msg.To, reply.From)
	assert.Equal(t, msg.ID, reply.ReplyTo)
	assert.True(t, reply.IsReply())
	assert.NotEqual(t, msg.ID, reply.ID)
}

func TestMessage_Validate(t *testing.T) {
	valid := func() *Message {
		return NewMessage("agent://a", "agent://b", &CapabilityRequest{})
	}

	tests := []struct {
		name    string
		mutate  func(*Message)
		wantErr error
	}{
		{"missing id", func(m *Message) { m.ID = "" }, ErrMessageMissingID},
		{"missing from", func(m *Message) { m.From = "" }, ErrMessageMissingFrom},
		{"missing to", func(m *Message) { m.To = "" }, ErrMessageMissingTo},
		{"missing content", func(m *Message) { m.Content = nil }, ErrMessageMissingContent},
		{"missing timestamp", func(m *Message) { m.Timestamp = time.Time{} }, ErrMessageMissingTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := valid()
			tt.mutate(msg)
			assert.ErrorIs(t, msg.Validate(), tt.wantErr)
		})
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	progress := 0.5
	variants := []Content{
		&ActionRequest{
			Action:     "execute_search",
			Parameters: map[string]any{"task_id": "t-1", "max_results": float64(2)},
			Context:    map[string]any{"iteration": float64(1)},
		},
		&ActionResponse{
			Action: "execute_search",
			Result: map[string]any{"results_count": float64(4)},
			Status: StatusCompleted,
		},
		&ActionResponse{
			Action: "analyze_results",
			Result: map[string]any{},
			Status: StatusFailed,
			Error:  "task not found: t-9",
		},
		&CapabilityRequest{},
		&CapabilityResponse{
			Capabilities: []Capability{{
				Name:        "refine_topic",
				Description: "Refine and clarify a research topic",
				Parameters:  map[string]any{"task_id": map[string]any{"type": "string"}},
				Returns:     map[string]any{"refined_topic": map[string]any{"type": "string"}},
			}},
			Agent: AgentDescriptor{
				ID:      "agent://topic-refiner",
				Name:    "Dr. Topic Refiner",
				Version: "1.0.0",
				Capabilities: []Capability{{
					Name:       "refine_topic",
					Parameters: map[string]any{},
					Returns:    map[string]any{},
				}},
			},
		},
		&ErrorContent{
			Code:    CodeUnsupportedMessageType,
			Message: "unsupported content",
			Details: map[string]any{"received": "StatusUpdate"},
		},
		&StatusUpdate{Status: StatusProcessing, Progress: &progress, Message: "searching"},
	}

	for _, variant := range variants {
		t.Run(string(variant.ContentType()), func(t *testing.T) {
			msg := NewMessage("agent://a", "agent://b", variant)
			msg.ReplyTo = "prior-id"
			msg.Metadata = map[string]any{"trace": "abc"}

			data, err := Encode(msg)
			require.NoError(t, err)

			decoded, err := Decode(data)
			require.NoError(t, err)

			assert.Equal(t, msg.ID, decoded.ID)
			assert.Equal(t, msg.To, decoded.To)
			assert.Equal(t, msg.From, decoded.From)
			assert.Equal(t, msg.ReplyTo, decoded.ReplyTo)
			assert.Equal(t, msg.Metadata, decoded.Metadata)
			assert.True(t, msg.Timestamp.Equal(decoded.Timestamp))
			assert.Equal(t, variant, decoded.Content)
		})
	}
}

// The serialized bytes must carry the inner discriminator even though the
// content field is marshalled through the Content interface.
func TestEncode_ContentDiscriminatorPresent(t *testing.T) {
	msg := NewActionRequest("agent://a", "agent://b", "refine_topic", nil, nil)

	data, err := Encode(msg)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	var envelopeType string
	require.NoError(t, json.Unmarshal(raw["@type"], &envelopeType))
	assert.Equal(t, TypeMessage, envelopeType)

	var content map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["content"], &content))

	var contentType string
	require.NoError(t, json.Unmarshal(content["@type"], &contentType))
	assert.Equal(t, "ActionRequest", contentType)
}

func TestDecode_MissingContentDiscriminator(t *testing.T) {
	payload := `{
		"@type": "Message",
		"id": "m-1",
		"to": "agent://a",
		"from": "agent://b",
		"content": {"action": "refine_topic", "parameters": {}, "context": {}},
		"timestamp": "2025-01-01T00:00:00Z"
	}`

	_, err := Decode([]byte(payload))
	de, ok := IsDecodeError(err)
	require.True(t, ok)
	assert.Equal(t, DecodeUnknownContentType, de.Kind)
}

func TestDecode_UnknownContentType(t *testing.T) {
	payload := `{
		"@type": "Message",
		"id": "m-1",
		"to": "agent://a",
		"from": "agent://b",
		"content": {"@type": "TaskDelegation"},
		"timestamp": "2025-01-01T00:00:00Z"
	}`

	_, err := Decode([]byte(payload))
	de, ok := IsDecodeError(err)
	require.True(t, ok)
	assert.Equal(t, DecodeUnknownContentType, de.Kind)
	assert.Contains(t, de.Error(), "TaskDelegation")
}

func TestDecode_TypeAliasAccepted(t *testing.T) {
	// "type" is accepted as an alias of "@type" on both levels.
	payload := `{
		"type": "Message",
		"id": "m-1",
		"to": "agent://a",
		"from": "agent://b",
		"content": {"type": "CapabilityRequest"},
		"timestamp": "2025-01-01T00:00:00Z"
	}`

	msg, err := Decode([]byte(payload))
	require.NoError(t, err)
	assert.IsType(t, &CapabilityRequest{}, msg.Content)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte(`{not json`))
	de, ok := IsDecodeError(err)
	require.True(t, ok)
	assert.Equal(t, DecodeMalformed, de.Kind)
}

func TestDecode_WrongEnvelopeType(t *testing.T) {
	payload := `{
		"@type": "Notification",
		"id": "m-1",
		"to": "agent://a",
		"from": "agent://b",
		"content": {"@type": "CapabilityRequest"},
		"timestamp": "2025-01-01T00:00:00Z"
	}`

	_, err := Decode([]byte(payload))
	_, ok := IsDecodeError(err)
	assert.True(t, ok)
}

func TestDecode_ValidationFailure(t *testing.T) {
	payload := `{
		"@type": "Message",
		"id": "",
		"to": "agent://a",
		"from": "agent://b",
		"content": {"@type": "CapabilityRequest"},
		"timestamp": "2025-01-01T00:00:00Z"
	}`

	_, err := Decode([]byte(payload))
	assert.ErrorIs(t, err, ErrMessageMissingID)
}
