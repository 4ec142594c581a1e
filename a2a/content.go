package a2a

import (
	"encoding/json"
	"fmt"
)

// ContentType identifies which content variant a payload is. The value is
// carried on the wire in the "@type" discriminator field.
type ContentType string

const (
	ContentTypeActionRequest      ContentType = "ActionRequest"
	ContentTypeActionResponse     ContentType = "ActionResponse"
	ContentTypeCapabilityRequest  ContentType = "CapabilityRequest"
	ContentTypeCapabilityResponse ContentType = "CapabilityResponse"
	ContentTypeError              ContentType = "Error"
	ContentTypeStatusUpdate       ContentType = "StatusUpdate"
)

// String returns the string representation of the content type.
func (t ContentType) String() string {
	return string(t)
}

// Status represents the processing status carried by ActionResponse and
// StatusUpdate content.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// IsValid checks whether the status is a member of the status enum.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// Content is one member of the closed set of payload kinds an envelope may
// carry. Every variant serializes its own "@type" discriminator, even when
// marshalled through this interface; a generic serializer that only tags the
// outer message would silently drop the inner tag and break interoperability.
type Content interface {
	// ContentType returns the discriminator value for this variant.
	ContentType() ContentType
}

// Capability describes a named, schema-described action an agent can perform.
type Capability struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
	Returns     map[string]any `json:"returns"`
}

// AgentDescriptor carries agent identity and metadata, returned alongside the
// capability list during discovery.
type AgentDescriptor struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Version      string         `json:"version"`
	Capabilities []Capability   `json:"capabilities"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// ActionRequest asks the receiving agent to execute a named action.
type ActionRequest struct {
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
	Context    map[string]any `json:"context"`
}

func (c *ActionRequest) ContentType() ContentType { return ContentTypeActionRequest }

// MarshalJSON emits the "@type" discriminator alongside the variant fields.
func (c *ActionRequest) MarshalJSON() ([]byte, error) {
	type alias ActionRequest
	return json.Marshal(&struct {
		Type ContentType `json:"@type"`
		*alias
	}{Type: c.ContentType(), alias: (*alias)(c)})
}

// ActionResponse reports the outcome of an action execution. A completed
// response carries a populated result; a failed response carries a non-empty
// error and may carry an empty result.
type ActionResponse struct {
	Action string         `json:"action"`
	Result map[string]any `json:"result"`
	Status Status         `json:"status"`
	Error  string         `json:"error,omitempty"`
}

func (c *ActionResponse) ContentType() ContentType { return ContentTypeActionResponse }

func (c *ActionResponse) MarshalJSON() ([]byte, error) {
	type alias ActionResponse
	return json.Marshal(&struct {
		Type ContentType `json:"@type"`
		*alias
	}{Type: c.ContentType(), alias: (*alias)(c)})
}

// CapabilityRequest asks the receiving agent for its capability list.
type CapabilityRequest struct{}

func (c *CapabilityRequest) ContentType() ContentType { return ContentTypeCapabilityRequest }

func (c *CapabilityRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type ContentType `json:"@type"`
	}{Type: c.ContentType()})
}

// CapabilityResponse lists the capabilities of the responding agent.
type CapabilityResponse struct {
	Capabilities []Capability    `json:"capabilities"`
	Agent        AgentDescriptor `json:"agent"`
}

func (c *CapabilityResponse) ContentType() ContentType { return ContentTypeCapabilityResponse }

func (c *CapabilityResponse) MarshalJSON() ([]byte, error) {
	type alias CapabilityResponse
	return json.Marshal(&struct {
		Type ContentType `json:"@type"`
		*alias
	}{Type: c.ContentType(), alias: (*alias)(c)})
}

// ErrorContent reports a protocol-level error, such as an undecodable or
// unsupported inbound message.
type ErrorContent struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (c *ErrorContent) ContentType() ContentType { return ContentTypeError }

func (c *ErrorContent) MarshalJSON() ([]byte, error) {
	type alias ErrorContent
	return json.Marshal(&struct {
		Type ContentType `json:"@type"`
		*alias
	}{Type: c.ContentType(), alias: (*alias)(c)})
}

// StatusUpdate reports progress during long-running operations.
type StatusUpdate struct {
	Status   Status   `json:"status"`
	Progress *float64 `json:"progress,omitempty"`
	Message  string   `json:"message,omitempty"`
}

func (c *StatusUpdate) ContentType() ContentType { return ContentTypeStatusUpdate }

func (c *StatusUpdate) MarshalJSON() ([]byte, error) {
	type alias StatusUpdate
	return json.Marshal(&struct {
		Type ContentType `json:"@type"`
		*alias
	}{Type: c.ContentType(), alias: (*alias)(c)})
}

// Protocol error codes carried in ErrorContent.Code.
const (
	CodeUnsupportedMessageType = "UNSUPPORTED_MESSAGE_TYPE"
	CodeProcessingError        = "PROCESSING_ERROR"
)

// contentProbe reads only the discriminator from a raw content payload.
// "type" is accepted as an alias of "@type" for senders that populate by
// field name.
type contentProbe struct {
	Type    ContentType `json:"@type"`
	AltType ContentType `json:"type"`
}

// DecodeContent parses a raw content payload, dispatching on the "@type"
// discriminator before the rest of the variant's fields are parsed. An
// unrecognized or missing discriminator fails with a DecodeError of kind
// DecodeUnknownContentType.
func DecodeContent(data []byte) (Content, error) {
	var probe contentProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &DecodeError{Kind: DecodeMalformed, cause: err}
	}

	contentType := probe.Type
	if contentType == "" {
		contentType = probe.AltType
	}

	var content Content
	switch contentType {
	case ContentTypeActionRequest:
		content = &ActionRequest{}
	case ContentTypeActionResponse:
		content = &ActionResponse{}
	case ContentTypeCapabilityRequest:
		content = &CapabilityRequest{}
	case ContentTypeCapabilityResponse:
		content = &CapabilityResponse{}
	case ContentTypeError:
		content = &ErrorContent{}
	case ContentTypeStatusUpdate:
		content = &StatusUpdate{}
	default:
		return nil, &DecodeError{Kind: DecodeUnknownContentType, ContentType: string(contentType)}
	}

	if err := json.Unmarshal(data, content); err != nil {
		return nil, &DecodeError{Kind: DecodeMalformed, ContentType: string(contentType), cause: err}
	}

	return content, nil
}

// EncodeContent serializes a content variant, including its discriminator.
func EncodeContent(content Content) ([]byte, error) {
	if content == nil {
		return nil, fmt.Errorf("%w: nil content", ErrInvalidMessage)
	}
	return json.Marshal(content)
}
