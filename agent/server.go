package agent

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/researchflow/a2a"
)

// ServerConfig holds configuration for the agent HTTP server.
type ServerConfig struct {
	// RequestTimeout bounds the processing of one inbound message.
	RequestTimeout time.Duration
	// Logger is the logger instance.
	Logger *zap.Logger
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		RequestTimeout: 120 * time.Second,
		Logger:         zap.NewNop(),
	}
}

// Server exposes one agent over HTTP: POST /message for protocol envelopes,
// GET /capabilities for discovery and GET /health for liveness.
type Server struct {
	agent  *Agent
	config ServerConfig
	logger *zap.Logger
}

// NewServer creates an HTTP server wrapping the given agent.
func NewServer(ag *Agent, config ServerConfig) *Server {
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultServerConfig().RequestTimeout
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &Server{agent: ag, config: config, logger: config.Logger}
}

// Agent returns the served agent.
func (s *Server) Agent() *Agent { return s.agent }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/message" && r.Method == http.MethodPost:
		s.handleMessage(w, r)
	case r.URL.Path == "/capabilities" && r.Method == http.MethodGet:
		s.handleCapabilities(w, r)
	case r.URL.Path == "/health" && r.Method == http.MethodGet:
		s.handleHealth(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// handleMessage decodes one envelope, dispatches it and writes the reply.
// Undecodable payloads get an Error envelope with HTTP 200: the transport
// succeeded, the protocol exchange did not.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	msg, err := a2a.Decode(body)
	if err != nil {
		s.logger.Warn("rejecting undecodable message",
			zap.String("agent_id", s.agent.ID()),
			zap.Error(err))
		s.writeReply(w, s.errorReply(body, err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
	defer cancel()

	s.writeReply(w, s.agent.Process(ctx, msg))
}

func (s *Server) handleCapabilities(w http.ResponseWriter, _ *http.Request) {
	desc := s.agent.Descriptor()
	s.writeJSON(w, http.StatusOK, &a2a.CapabilityListing{
		AgentID:      desc.ID,
		Name:         desc.Name,
		Capabilities: desc.Capabilities,
		Metadata:     desc.Metadata,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"agent_id": s.agent.ID(),
		"name":     s.agent.Name(),
	})
}

// errorReply builds an Error envelope for a payload that failed to decode.
// Sender addressing is recovered from the raw payload on a best-effort basis
// so the reply still reaches the caller's correlation logic.
func (s *Server) errorReply(raw []byte, cause error) *a2a.Message {
	code := a2a.CodeProcessingError
	if _, ok := a2a.IsDecodeError(cause); ok {
		code = a2a.CodeUnsupportedMessageType
	}

	var probe struct {
		ID   string `json:"id"`
		From string `json:"from"`
	}
	_ = json.Unmarshal(raw, &probe)

	from := probe.From
	if from == "" {
		from = "agent://unknown"
	}

	reply := a2a.NewMessage(from, s.agent.ID(), &a2a.ErrorContent{
		Code:    code,
		Message: cause.Error(),
	})
	reply.ReplyTo = probe.ID
	return reply
}

func (s *Server) writeReply(w http.ResponseWriter, reply *a2a.Message) {
	data, err := a2a.Encode(reply)
	if err != nil {
		s.logger.Error("failed to encode reply",
			zap.String("agent_id", s.agent.ID()),
			zap.Error(err))
		http.Error(w, "failed to encode reply", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write reply", zap.Error(err))
	}
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
