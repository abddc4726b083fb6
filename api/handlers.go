package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tanpawarit/agentic-insurance-assistant/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/agentic-insurance-assistant/agent/contract"
)

const maxChatBodyBytes = 1 << 20

const (
	msgStoreUnavailable = "insurance records are temporarily unavailable, please try again shortly"
	msgTimeout          = "the assistant took too long to answer, please try again"
	msgUpstream         = "the assistant could not complete this request, please try again"
	msgInternal         = "internal server error"
)

type ChatRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type ChatData struct {
	Messages contractx.Transcript `json:"messages"`
}

type ChatResponse struct {
	Answer string   `json:"answer"`
	Data   ChatData `json:"data"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.UserID) == "" {
		s.writeError(w, "userId is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, "message is required", http.StatusBadRequest)
		return
	}

	out, err := s.chat.HandleMessage(r.Context(), req.UserID, req.Message)
	if err != nil {
		status, msg := errorStatus(err)
		loggerFrom(r).Error().Err(err).Int("status", status).Msg("chat error")
		s.writeError(w, msg, status)
		return
	}

	messages := out.Messages
	if messages == nil {
		messages = contractx.Transcript{}
	}
	s.writeJSON(w, http.StatusOK, ChatResponse{
		Answer: out.Answer,
		Data:   ChatData{Messages: messages},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorStatus maps a failed request to its HTTP status and client message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, contractx.ErrValidation):
		return http.StatusBadRequest, validationMessage(err)
	case errors.Is(err, contractx.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, msgStoreUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, msgTimeout
	case errors.Is(err, contractx.ErrModelInvoke),
		errors.Is(err, contractx.ErrSchemaViolation),
		errors.Is(err, contractx.ErrMaxSteps):
		return http.StatusBadGateway, msgUpstream
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, orchestrator.ErrInvalidUser):
		return "userId is required"
	case errors.Is(err, orchestrator.ErrInvalidMessage):
		return "message is required"
	default:
		return "invalid request"
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, message string, status int) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}
