package orchestratornode

import (
	"context"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/agentic-insurance-assistant/agent/contract"
)

func RunAgent(ctx context.Context, in *GraphState, agent contractx.Agent) (*GraphState, error) {
	if in == nil {
		return nil, ErrNilState
	}

	resp, err := agent.Run(ctx, contractx.AgentRequest{
		UserID:  in.UserID,
		Message: in.Text,
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("request_id", in.RequestID).
		Int("steps", resp.Steps).
		Int("tool_results", len(resp.Transcript.ToolEntries(""))).
		Msg("agent finished")

	in.Response = resp
	return in, nil
}
