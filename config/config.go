// Package config provides unified configuration loading for all services:
// defaults, then a YAML file, then environment variable overrides.
package config

import (
	"fmt"
	"time"

	"github.com/BaSui01/researchflow/agent/research"
	"github.com/BaSui01/researchflow/llm"
	"github.com/BaSui01/researchflow/search"
	"github.com/BaSui01/researchflow/state"
)

// Config is the complete service configuration.
type Config struct {
	// Server configures the HTTP listener of the selected service.
	Server ServerConfig `yaml:"server" env:"SERVER"`

	// Redis configures the shared task store.
	Redis state.RedisConfig `yaml:"redis" env:"REDIS"`

	// LLM configures the text-completion provider.
	LLM llm.Config `yaml:"llm" env:"LLM"`

	// Search configures the web-search provider.
	Search search.DuckDuckGoConfig `yaml:"search" env:"SEARCH"`

	// Coordinator configures the workflow engine.
	Coordinator CoordinatorConfig `yaml:"coordinator" env:"COORDINATOR"`

	// Agents maps agent URIs to base URLs. YAML only; there is no sane
	// env encoding for the mapping.
	Agents map[string]string `yaml:"agents" env:"-"`

	// Log configures logging.
	Log LogConfig `yaml:"log" env:"LOG"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Host is the bind address.
	Host string `yaml:"host" env:"HOST"`
	// Port is the HTTP port. 0 selects the running service's own default
	// (8001-8005 for the agents, 8006 for the coordinator).
	Port int `yaml:"port" env:"PORT"`
	// ReadTimeout bounds request reads.
	ReadTimeout time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	// WriteTimeout bounds response writes. Agent calls can take minutes,
	// so this stays generous.
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// CoordinatorConfig configures the workflow engine.
type CoordinatorConfig struct {
	// MaxIterations is the default research-loop bound.
	MaxIterations int `yaml:"max_iterations" env:"MAX_ITERATIONS"`
	// StepTimeout bounds one agent call.
	StepTimeout time.Duration `yaml:"step_timeout" env:"STEP_TIMEOUT"`
	// SearchMaxResults is the per-query result cap passed to the search
	// step.
	SearchMaxResults int `yaml:"search_max_results" env:"SEARCH_MAX_RESULTS"`
	// MetricsPort serves Prometheus metrics; 0 disables the endpoint.
	MetricsPort int `yaml:"metrics_port" env:"METRICS_PORT"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" env:"LEVEL"`
	// Format is "json" or "console".
	Format string `yaml:"format" env:"FORMAT"`
}

// servicePorts are the default local deployment ports, one per service.
var servicePorts = map[string]int{
	research.AgentIDTopicRefiner:      8001,
	research.AgentIDQuestionArchitect: 8002,
	research.AgentIDSearchStrategist:  8003,
	research.AgentIDDataAnalyst:       8004,
	research.AgentIDReportWriter:      8005,
	research.AgentIDCoordinator:       8006,
}

// DefaultConfig returns the full default configuration: every agent on its
// local port, memoryless ambient defaults for the external capabilities.
func DefaultConfig() *Config {
	agents := make(map[string]string, len(servicePorts))
	for uri, port := range servicePorts {
		agents[uri] = fmt.Sprintf("http://localhost:%d", port)
	}

	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            0,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    180 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Redis:  state.DefaultRedisConfig(),
		LLM:    llm.DefaultConfig(),
		Search: search.DefaultDuckDuckGoConfig(),
		Coordinator: CoordinatorConfig{
			MaxIterations:    2,
			StepTimeout:      120 * time.Second,
			SearchMaxResults: 2,
			MetricsPort:      9090,
		},
		Agents: agents,
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// ServicePort returns the default port for a service URI, or 0 when the URI
// is unknown.
func ServicePort(agentURI string) int {
	return servicePorts[agentURI]
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Coordinator.MaxIterations <= 0 {
		return fmt.Errorf("coordinator max_iterations must be positive")
	}
	if c.Coordinator.SearchMaxResults <= 0 {
		return fmt.Errorf("coordinator search_max_results must be positive")
	}
	for uri, baseURL := range c.Agents {
		if baseURL == "" {
			return fmt.Errorf("agent %s has an empty endpoint", uri)
		}
	}
	return nil
}
