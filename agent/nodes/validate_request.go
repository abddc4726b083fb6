package orchestratornode

import (
	"errors"
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/agentic-insurance-assistant/agent/contract"
)

var (
	ErrInvalidMessage = fmt.Errorf("%w: message is empty", contractx.ErrValidation)
	ErrInvalidUser    = fmt.Errorf("%w: user id is empty", contractx.ErrValidation)
	ErrNilState       = errors.New("graph state is nil")
)

type GraphInput struct {
	RequestID string
	UserID    string
	Text      string
}

type GraphOutput struct {
	RequestID string
	Answer    string
	Steps     int
	Messages  contractx.Transcript
}

type GraphState struct {
	RequestID string
	UserID    string
	Text      string
	Now       time.Time

	Response contractx.AgentResponse
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, ErrInvalidUser
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		RequestID: strings.TrimSpace(in.RequestID),
		UserID:    userID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}
