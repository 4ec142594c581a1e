package coordinator

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownAgent indicates an agent URI has no directory entry.
var ErrUnknownAgent = errors.New("coordinator: unknown agent")

// Directory maps agent URIs to transport endpoints. Resolution is static:
// entries are fixed at construction time.
type Directory struct {
	endpoints map[string]string
}

// NewDirectory creates a directory from a URI-to-base-URL mapping.
func NewDirectory(endpoints map[string]string) *Directory {
	copied := make(map[string]string, len(endpoints))
	for uri, baseURL := range endpoints {
		copied[uri] = baseURL
	}
	return &Directory{endpoints: copied}
}

// Resolve returns the base URL serving the given agent URI.
func (d *Directory) Resolve(agentURI string) (string, error) {
	baseURL, ok := d.endpoints[agentURI]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAgent, agentURI)
	}
	return baseURL, nil
}

// Agents returns the known agent URIs in sorted order.
func (d *Directory) Agents() []string {
	uris := make([]string, 0, len(d.endpoints))
	for uri := range d.endpoints {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}
