package a2a

import (
	"errors"
	"fmt"
)

// Protocol errors.
var (
	// ErrInvalidMessage indicates the message format is invalid.
	ErrInvalidMessage = errors.New("a2a: invalid message format")
	// ErrAgentUnreachable indicates the remote agent could not be reached.
	ErrAgentUnreachable = errors.New("a2a: agent unreachable")
)

// Message validation errors.
var (
	// ErrMessageMissingID indicates the message is missing an ID.
	ErrMessageMissingID = errors.New("a2a message: missing id")
	// ErrMessageMissingFrom indicates the message is missing a sender.
	ErrMessageMissingFrom = errors.New("a2a message: missing from")
	// ErrMessageMissingTo indicates the message is missing a recipient.
	ErrMessageMissingTo = errors.New("a2a message: missing to")
	// ErrMessageMissingContent indicates the message carries no content.
	ErrMessageMissingContent = errors.New("a2a message: missing content")
	// ErrMessageMissingTimestamp indicates the message is missing a timestamp.
	ErrMessageMissingTimestamp = errors.New("a2a message: missing timestamp")
)

// DecodeErrorKind classifies decode failures.
type DecodeErrorKind string

const (
	// DecodeMalformed indicates the payload is not valid JSON or does not
	// match the variant's field shapes.
	DecodeMalformed DecodeErrorKind = "Malformed"
	// DecodeUnknownContentType indicates the content discriminator is
	// missing or names no known variant.
	DecodeUnknownContentType DecodeErrorKind = "UnknownContentType"
)

// DecodeError reports a failure to decode an envelope or its content.
// Decode failures are protocol-layer and non-retryable without a sender fix.
type DecodeError struct {
	Kind        DecodeErrorKind
	ContentType string
	cause       error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Kind == DecodeUnknownContentType && e.ContentType != "":
		return fmt.Sprintf("a2a decode: unknown content type %q", e.ContentType)
	case e.Kind == DecodeUnknownContentType:
		return "a2a decode: missing content type discriminator"
	case e.cause != nil:
		return fmt.Sprintf("a2a decode: malformed payload: %v", e.cause)
	default:
		return "a2a decode: malformed payload"
	}
}

func (e *DecodeError) Unwrap() error {
	return e.cause
}

// IsDecodeError reports whether err is a DecodeError, returning it if so.
func IsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
