package coordinator

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/researchflow/state"
)

// Server exposes the coordinator's outer HTTP surface: starting research
// tasks, polling task records and listing the agent directory.
type Server struct {
	coordinator *Coordinator
	store       state.Store
	logger      *zap.Logger
}

// NewServer creates the coordinator HTTP server.
func NewServer(c *Coordinator, store state.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{coordinator: c, store: store, logger: logger}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/start_research" && r.Method == http.MethodPost:
		s.handleStartResearch(w, r)
	case strings.HasPrefix(r.URL.Path, "/task/") && r.Method == http.MethodGet:
		s.handleTask(w, r)
	case r.URL.Path == "/agents" && r.Method == http.MethodGet:
		s.handleAgents(w, r)
	case r.URL.Path == "/health" && r.Method == http.MethodGet:
		s.handleHealth(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (s *Server) handleStartResearch(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		http.Error(w, "topic is required", http.StatusBadRequest)
		return
	}

	maxIterations := 0
	if raw := r.URL.Query().Get("max_iterations"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "max_iterations must be a positive integer", http.StatusBadRequest)
			return
		}
		maxIterations = parsed
	}

	taskID, err := s.coordinator.StartResearch(r.Context(), topic, maxIterations)
	if err != nil {
		s.logger.Error("failed to start research", zap.Error(err))
		http.Error(w, "failed to start research", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"task_id": taskID,
		"status":  "started",
		"message": "Research task started. Use /task/{task_id} to check progress.",
	})
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	taskID := strings.TrimPrefix(r.URL.Path, "/task/")
	if taskID == "" || strings.Contains(taskID, "/") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	task, err := s.store.Get(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, state.ErrTaskNotFound) {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}
		s.logger.Error("failed to load task",
			zap.String("task_id", taskID),
			zap.Error(err))
		http.Error(w, "failed to load task", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleAgents(w http.ResponseWriter, _ *http.Request) {
	type agentEntry struct {
		URI      string `json:"uri"`
		Endpoint string `json:"endpoint"`
	}

	agents := make([]agentEntry, 0)
	for _, uri := range s.coordinator.Directory().Agents() {
		endpoint, err := s.coordinator.Directory().Resolve(uri)
		if err != nil {
			continue
		}
		agents = append(agents, agentEntry{URI: uri, Endpoint: endpoint})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"agents": agents})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if err := s.store.Ping(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	s.writeJSON(w, code, map[string]string{
		"status":  status,
		"service": "coordinator",
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

// Ensure Server implements http.Handler.
var _ http.Handler = (*Server)(nil)
