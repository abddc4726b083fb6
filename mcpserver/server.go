package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-insurance-assistant/agent/contract"
	toolx "github.com/tanpawarit/agentic-insurance-assistant/agent/tool"
)

const serverName = "insurance-assistant"

// New exposes the lookup tools over MCP. Every call goes through executor, the
// same dispatch table the chat agent uses.
func New(executor toolx.Executor, version string) *server.MCPServer {
	s := server.NewMCPServer(serverName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	for _, tool := range Tools() {
		s.AddTool(tool, Handler(executor, tool.Name))
	}
	return s
}

func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func Tools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(toolx.ToolGetPolicy,
			mcp.WithDescription("Get an insurance policy with its status, coverage dates, sum insured, premium and the policyholder's contact details."),
			mcp.WithString("policy_id", mcp.Required(), mcp.Description("Policy id, e.g. POL-100005")),
			mcp.WithTitleAnnotation("Get Policy"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		mcp.NewTool(toolx.ToolGetClaim,
			mcp.WithDescription("Get an insurance claim with its status, amounts, rejection reason and the product and current status of its policy."),
			mcp.WithString("claim_id", mcp.Required(), mcp.Description("Claim id, e.g. CLM-200010")),
			mcp.WithTitleAnnotation("Get Claim"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		mcp.NewTool(toolx.ToolGetDocuments,
			mcp.WithDescription("List document metadata for a policy or a claim, newest first. The claim id wins when both are given."),
			mcp.WithString("policy_id", mcp.Description("Policy id, e.g. POL-100005")),
			mcp.WithString("claim_id", mcp.Description("Claim id, e.g. CLM-200010")),
			mcp.WithTitleAnnotation("Get Documents"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func Handler(executor toolx.Executor, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := executor(ctx, name, request.GetArguments())
		if err != nil {
			log.Error().Err(err).Str("tool", name).Msg("mcp tool call failed")
			if errors.Is(err, contractx.ErrStoreUnavailable) {
				return mcp.NewToolResultError("insurance records are temporarily unavailable, please try again shortly"), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("tool=%s failed", name)), nil
		}
		if result.Error != "" {
			return mcp.NewToolResultError(result.Error), nil
		}

		raw, err := json.Marshal(result.Result)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode result of tool=%s: %v", name, err)), nil
		}
		return mcp.NewToolResultStructured(result.Result, string(raw)), nil
	}
}
