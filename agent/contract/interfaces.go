package contract

import "context"

// Agent runs one chat request to a final answer.
type Agent interface {
	Run(ctx context.Context, req AgentRequest) (AgentResponse, error)
}
