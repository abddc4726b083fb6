package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanpawarit/agentic-insurance-assistant/agent/insurance"
	insurance_mocks "github.com/tanpawarit/agentic-insurance-assistant/agent/insurance/mocks"
	toolx "github.com/tanpawarit/agentic-insurance-assistant/agent/tool"
	"go.uber.org/mock/gomock"
)

func callTool(t *testing.T, executor toolx.Executor, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := Handler(executor, name)(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "unexpected content %T", res.Content[0])
	return text.Text
}

func TestToolsMatchCatalog(t *testing.T) {
	t.Parallel()

	tools := Tools()
	catalog := toolx.Catalog()
	require.Len(t, tools, len(catalog))
	for i := range tools {
		assert.Equal(t, catalog[i].Name, tools[i].Name)
	}

	assert.Equal(t, []string{"policy_id"}, tools[0].InputSchema.Required)
	assert.Equal(t, []string{"claim_id"}, tools[1].InputSchema.Required)
	assert.Empty(t, tools[2].InputSchema.Required)
}

func TestNewRegistersTools(t *testing.T) {
	t.Parallel()

	s := New(toolx.DefaultExecutor(), "test")
	require.NotNil(t, s)
}

func TestGetPolicyFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	lookup := insurance_mocks.NewMockLookup(ctrl)
	lookup.EXPECT().FetchPolicy(gomock.Any(), "POL-100005").Return(&insurance.PolicyDetails{
		Policy:   insurance.Policy{PolicyID: "POL-100005", Status: insurance.PolicyLapsed},
		FullName: "Ravi Kumar",
	}, nil)

	res := callTool(t, toolx.NewExecutor(lookup), toolx.ToolGetPolicy, map[string]any{"policy_id": "POL-100005"})
	assert.False(t, res.IsError)
	assert.NotNil(t, res.StructuredContent)

	var out toolx.PolicyOutput
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.True(t, out.Found)
	require.NotNil(t, out.Policy)
	assert.Equal(t, insurance.PolicyLapsed, out.Policy.Status)
	assert.Equal(t, "Ravi Kumar", out.Policy.FullName)
}

func TestGetClaimNotFoundIsStructured(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	lookup := insurance_mocks.NewMockLookup(ctrl)
	lookup.EXPECT().FetchClaim(gomock.Any(), "CLM-1").Return(nil, insurance.ErrNotFound)

	res := callTool(t, toolx.NewExecutor(lookup), toolx.ToolGetClaim, map[string]any{"claim_id": "CLM-1"})
	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"found":false,"claim_id":"CLM-1"}`, resultText(t, res))
}

func TestMissingArgumentIsToolError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	lookup := insurance_mocks.NewMockLookup(ctrl)

	res := callTool(t, toolx.NewExecutor(lookup), toolx.ToolGetPolicy, map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "policy_id")
}

func TestStoreFailureIsToolError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	lookup := insurance_mocks.NewMockLookup(ctrl)
	lookup.EXPECT().FetchDocuments(gomock.Any(), "POL-100005", "").Return(nil, errors.New("connection reset"))

	res := callTool(t, toolx.NewExecutor(lookup), toolx.ToolGetDocuments, map[string]any{"policy_id": "POL-100005"})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "temporarily unavailable")
}
