package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/agentic-insurance-assistant/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	answer := strings.TrimSpace(in.Response.Answer)
	if answer == "" {
		return GraphOutput{}, fmt.Errorf("%w: agent returned empty answer", contractx.ErrSchemaViolation)
	}
	return GraphOutput{
		RequestID: in.RequestID,
		Answer:    answer,
		Steps:     in.Response.Steps,
		Messages:  in.Response.Transcript,
	}, nil
}
