package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis-backed store.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
	PoolSize  int    `yaml:"pool_size"`
}

// DefaultRedisConfig returns a RedisConfig with sensible defaults.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr: "localhost:6379",
	}
}

// RedisStore is a Redis-based implementation of Store. Task records are
// stored as JSON strings under "task:<task_id>".
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore creates a Redis-based store and verifies the connection.
func NewRedisStore(config RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
		PoolSize: config.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client:    client,
		keyPrefix: config.KeyPrefix,
	}, nil
}

// taskKey returns the Redis key for a task record.
func (s *RedisStore) taskKey(taskID string) string {
	return s.keyPrefix + "task:" + taskID
}

// Get retrieves a task record by ID.
func (s *RedisStore) Get(ctx context.Context, taskID string) (*TaskState, error) {
	data, err := s.client.Get(ctx, s.taskKey(taskID)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if err != nil {
		return nil, err
	}

	var task TaskState
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task %s: %w", taskID, err)
	}
	return &task, nil
}

// Set writes the full task record, overwriting any previous value.
func (s *RedisStore) Set(ctx context.Context, taskID string, task *TaskState) error {
	if task == nil {
		return ErrInvalidInput
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task %s: %w", taskID, err)
	}
	return s.client.Set(ctx, s.taskKey(taskID), data, 0).Err()
}

// AppendLog appends an entry to the task's agent log via read-modify-write.
func (s *RedisStore) AppendLog(ctx context.Context, taskID string, entry LogEntry) error {
	task, err := s.Get(ctx, taskID)
	if err != nil {
		return err
	}
	task.AgentLogs = append(task.AgentLogs, entry)
	return s.Set(ctx, taskID, task)
}

// Ping checks whether Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
