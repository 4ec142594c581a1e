// Package a2a implements the agent-to-agent message protocol: a versioned,
// transport-agnostic envelope carrying one of a closed set of content
// variants, plus the HTTP client used to reach remote agent endpoints.
//
// Every payload on the wire is self-describing. The envelope carries the
// "@type":"Message" discriminator and its content carries the variant's own
// discriminator ("ActionRequest", "ActionResponse", "CapabilityRequest",
// "CapabilityResponse", "Error", "StatusUpdate"). Encoding delegates to the
// variant's serializer so the inner tag is never dropped, and decoding
// dispatches on the raw discriminator before parsing the variant's fields.
package a2a
