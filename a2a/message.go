package a2a

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TypeMessage is the constant envelope discriminator.
const TypeMessage = "Message"

// Message is the A2A protocol envelope: addressing plus one content payload.
// To and From are opaque agent URIs (e.g. "agent://topic-refiner").
type Message struct {
	// ID is the unique identifier of this message.
	ID string `json:"id"`
	// To is the identifier of the receiving agent.
	To string `json:"to"`
	// From is the identifier of the sending agent.
	From string `json:"from"`
	// Content is the polymorphic payload.
	Content Content `json:"content"`
	// ReplyTo is the ID of the message this replies to (optional).
	ReplyTo string `json:"reply_to,omitempty"`
	// Timestamp is when the message was created.
	Timestamp time.Time `json:"timestamp"`
	// Metadata is an open mapping for transport-agnostic extras.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewMessage creates a message with a generated ID and current UTC timestamp.
func NewMessage(to, from string, content Content) *Message {
	return &Message{
		ID:        uuid.New().String(),
		To:        to,
		From:      from,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// NewActionRequest creates an action request message.
func NewActionRequest(to, from, action string, parameters, context map[string]any) *Message {
	if parameters == nil {
		parameters = map[string]any{}
	}
	if context == nil {
		context = map[string]any{}
	}
	return NewMessage(to, from, &ActionRequest{
		Action:     action,
		Parameters: parameters,
		Context:    context,
	})
}

// NewCapabilityRequest creates a capability discovery message.
func NewCapabilityRequest(to, from string) *Message {
	return NewMessage(to, from, &CapabilityRequest{})
}

// Reply creates a response to this message: addressing is reversed and
// reply_to is set to this message's ID.
func (m *Message) Reply(content Content) *Message {
	reply := NewMessage(m.From, m.To, content)
	reply.ReplyTo = m.ID
	return reply
}

// IsReply checks whether this message is a reply to another message.
func (m *Message) IsReply() bool {
	return m.ReplyTo != ""
}

// Validate checks that the message has all required fields.
func (m *Message) Validate() error {
	if m.ID == "" {
		return ErrMessageMissingID
	}
	if m.From == "" {
		return ErrMessageMissingFrom
	}
	if m.To == "" {
		return ErrMessageMissingTo
	}
	if m.Content == nil {
		return ErrMessageMissingContent
	}
	if m.Timestamp.IsZero() {
		return ErrMessageMissingTimestamp
	}
	return nil
}

// MarshalJSON emits the envelope with its "@type" discriminator. The content
// field marshals through the variant's own serializer, so the inner
// discriminator is always present on the wire.
func (m *Message) MarshalJSON() ([]byte, error) {
	type alias Message
	return json.Marshal(&struct {
		Type string `json:"@type"`
		*alias
	}{Type: TypeMessage, alias: (*alias)(m)})
}

// UnmarshalJSON decodes the envelope, deferring the content payload to
// DecodeContent so the variant is dispatched on its raw discriminator.
func (m *Message) UnmarshalJSON(data []byte) error {
	type alias Message
	aux := &struct {
		Type    string          `json:"@type"`
		AltType string          `json:"type"`
		Content json.RawMessage `json:"content"`
		*alias
	}{alias: (*alias)(m)}

	if err := json.Unmarshal(data, aux); err != nil {
		return &DecodeError{Kind: DecodeMalformed, cause: err}
	}

	envelopeType := aux.Type
	if envelopeType == "" {
		envelopeType = aux.AltType
	}
	if envelopeType != "" && envelopeType != TypeMessage {
		return &DecodeError{Kind: DecodeUnknownContentType, ContentType: envelopeType}
	}

	if len(aux.Content) == 0 || string(aux.Content) == "null" {
		m.Content = nil
		return nil
	}

	content, err := DecodeContent(aux.Content)
	if err != nil {
		return err
	}
	m.Content = content
	return nil
}

// Encode serializes the message to JSON bytes.
func Encode(m *Message) ([]byte, error) {
	if m == nil {
		return nil, ErrInvalidMessage
	}
	return json.Marshal(m)
}

// Decode parses JSON bytes into a validated message. Failures are reported
// as DecodeError; a structurally valid message with missing required fields
// fails with the matching validation sentinel.
func Decode(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		if _, ok := IsDecodeError(err); ok {
			return nil, err
		}
		return nil, &DecodeError{Kind: DecodeMalformed, cause: err}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
