package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/agentic-insurance-assistant/agent/contract"
	"github.com/tanpawarit/agentic-insurance-assistant/agent/insurance"
)

const (
	ToolGetPolicy    = "get_policy"
	ToolGetClaim     = "get_claim"
	ToolGetDocuments = "get_documents"
)

type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error)

// Handler serves one tool. Returning an *ArgumentError reports bad input to the
// model; any other error is an infrastructure failure.
type Handler func(ctx context.Context, args map[string]any) (any, error)

type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string {
	return e.Msg
}

// DocumentLinker resolves a storage locator to a download link.
type DocumentLinker interface {
	DownloadURL(ctx context.Context, locator string) (string, error)
}

type Option func(*lookupTools)

func WithDocumentLinker(linker DocumentLinker) Option {
	return func(t *lookupTools) {
		t.linker = linker
	}
}

func Build(lookup insurance.Lookup, opts ...Option) ([]*schema.ToolInfo, Executor) {
	return Catalog(), NewExecutor(lookup, opts...)
}

// Handlers is the dispatch table from tool name to handler.
func Handlers(lookup insurance.Lookup, opts ...Option) map[string]Handler {
	t := &lookupTools{lookup: lookup}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return map[string]Handler{
		ToolGetPolicy:    t.getPolicy,
		ToolGetClaim:     t.getClaim,
		ToolGetDocuments: t.getDocuments,
	}
}

func NewExecutor(lookup insurance.Lookup, opts ...Option) Executor {
	return NewDispatchExecutor(Handlers(lookup, opts...))
}

func NewDispatchExecutor(handlers map[string]Handler) Executor {
	fallback := DefaultExecutor()
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		handler, ok := handlers[tool]
		if !ok {
			return fallback(ctx, tool, args)
		}

		out, err := handler(ctx, args)
		if err != nil {
			var argErr *ArgumentError
			if errors.As(err, &argErr) {
				return contractx.ToolResult{Tool: tool, Error: argErr.Msg}, nil
			}
			return contractx.ToolResult{Tool: tool}, err
		}
		return contractx.ToolResult{Tool: tool, Result: out}, nil
	}
}

func DefaultExecutor() Executor {
	return func(ctx context.Context, tool string, _ map[string]any) (contractx.ToolResult, error) {
		return contractx.ToolResult{
			Tool:  tool,
			Error: fmt.Sprintf("tool=%s is unavailable", tool),
		}, nil
	}
}

func Catalog() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolGetPolicy,
			Desc: "Get detailed information about an insurance policy, including its status, coverage dates, sum insured, premium and the policyholder's contact details.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"policy_id": {Type: schema.String, Desc: "Policy id, e.g. POL-100005", Required: true},
			}),
		},
		{
			Name: ToolGetClaim,
			Desc: "Get detailed information about an insurance claim, including its status, amounts, rejection reason and the product and status of its policy.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"claim_id": {Type: schema.String, Desc: "Claim id, e.g. CLM-200010", Required: true},
			}),
		},
		{
			Name: ToolGetDocuments,
			Desc: "Get document metadata for a policy or a claim, newest first. When both ids are given the claim id is used.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"policy_id": {Type: schema.String, Desc: "Policy id, e.g. POL-100005"},
				"claim_id":  {Type: schema.String, Desc: "Claim id, e.g. CLM-200010"},
			}),
		},
	}
}
