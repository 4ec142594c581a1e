package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory implementation of Store for development and
// testing. Records are copied on the way in and out so callers never share
// a live pointer with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[string][]byte),
	}
}

// Get retrieves a task record by ID.
func (s *MemoryStore) Get(ctx context.Context, taskID string) (*TaskState, error) {
	s.mu.RLock()
	data, ok := s.tasks[taskID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}

	var task TaskState
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Set writes the full task record, overwriting any previous value.
func (s *MemoryStore) Set(ctx context.Context, taskID string, task *TaskState) error {
	if task == nil {
		return ErrInvalidInput
	}

	data, err := json.Marshal(task)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.tasks[taskID] = data
	s.mu.Unlock()
	return nil
}

// AppendLog appends an entry to the task's agent log via read-modify-write.
func (s *MemoryStore) AppendLog(ctx context.Context, taskID string, entry LogEntry) error {
	task, err := s.Get(ctx, taskID)
	if err != nil {
		return err
	}
	task.AgentLogs = append(task.AgentLogs, entry)
	return s.Set(ctx, taskID, task)
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
