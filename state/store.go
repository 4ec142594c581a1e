// Package state provides the shared task-state store: the persisted record
// of a research workflow and the thin get/set adapter over the key-value
// backend that agents and the coordinator exchange it through.
//
// Supported backends:
// - Memory: for development and testing
// - Redis: for distributed deployments
//
// The adapter offers no transactional guarantee across a get-then-set pair.
// Callers must read-modify-write, and the pipeline keeps that safe by never
// letting two steps run against the same task concurrently.
package state

import (
	"context"
	"errors"
)

// Common errors.
var (
	// ErrTaskNotFound indicates no record exists under the task key.
	ErrTaskNotFound = errors.New("state: task not found")
	// ErrInvalidInput indicates a nil or unusable argument.
	ErrInvalidInput = errors.New("state: invalid input")
)

// Store is the adapter over the shared key-value task store.
type Store interface {
	// Get retrieves the task record, or ErrTaskNotFound.
	Get(ctx context.Context, taskID string) (*TaskState, error)
	// Set writes the full task record, overwriting any previous value.
	Set(ctx context.Context, taskID string, task *TaskState) error
	// AppendLog appends an entry to the task's agent log. Built on the
	// get-then-set pair; same last-writer-wins semantics as Set.
	AppendLog(ctx context.Context, taskID string, entry LogEntry) error
	// Ping checks whether the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}
