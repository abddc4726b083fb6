package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanpawarit/agentic-insurance-assistant/agent/agents/assistant"
	"github.com/tanpawarit/agentic-insurance-assistant/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/agentic-insurance-assistant/agent/contract"
	"github.com/tanpawarit/agentic-insurance-assistant/agent/insurance"
	insurance_mocks "github.com/tanpawarit/agentic-insurance-assistant/agent/insurance/mocks"
	toolx "github.com/tanpawarit/agentic-insurance-assistant/agent/tool"
	"go.uber.org/mock/gomock"
)

var policyIDPattern = regexp.MustCompile(`POL-\d+`)

// policyDeskModel asks get_policy for the policy id in the question, then
// answers from the tool result.
type policyDeskModel struct{}

func (policyDeskModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	last := input[len(input)-1]
	switch last.Role {
	case schema.User:
		id := policyIDPattern.FindString(last.Content)
		return &schema.Message{
			Role: schema.Assistant,
			ToolCalls: []schema.ToolCall{{
				ID:       "call-1",
				Type:     "function",
				Function: schema.FunctionCall{Name: toolx.ToolGetPolicy, Arguments: fmt.Sprintf(`{"policy_id":%q}`, id)},
			}},
		}, nil
	case schema.Tool:
		var out struct {
			Found    bool   `json:"found"`
			PolicyID string `json:"policy_id"`
			Policy   *struct {
				PolicyID string `json:"policy_id"`
				Status   string `json:"status"`
			} `json:"policy"`
		}
		if err := json.Unmarshal([]byte(last.Content), &out); err != nil {
			return nil, err
		}
		if !out.Found || out.Policy == nil {
			return &schema.Message{
				Role:    schema.Assistant,
				Content: fmt.Sprintf("I could not find policy %s. Please check the policy number.", out.PolicyID),
			}, nil
		}
		return &schema.Message{
			Role:    schema.Assistant,
			Content: fmt.Sprintf("Policy %s is currently %s.", out.Policy.PolicyID, out.Policy.Status),
		}, nil
	default:
		return nil, errors.New("unexpected transcript tail")
	}
}

func (policyDeskModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

func (m policyDeskModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return m, nil
}

func newE2EHandler(t *testing.T, lookup insurance.Lookup) http.Handler {
	t.Helper()

	infos, executor := toolx.Build(lookup)
	agent, err := assistant.New(context.Background(), policyDeskModel{}, "You are an insurance assistant.", infos, executor, 4)
	require.NoError(t, err)

	orch, err := orchestrator.New(agent, nil, orchestrator.Config{RequestTimeout: 5 * time.Second})
	require.NoError(t, err)

	return NewServer(orch, Config{}).Handler()
}

func TestChatEndToEndPolicyStatus(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	lookup := insurance_mocks.NewMockLookup(ctrl)
	lookup.EXPECT().FetchPolicy(gomock.Any(), "POL-100005").Return(&insurance.PolicyDetails{
		Policy: insurance.Policy{
			PolicyID:      "POL-100005",
			CustomerID:    17,
			ProductCode:   "HLTH_GOLD",
			ProductName:   "Health Gold",
			StartDate:     time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			EndDate:       time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			Status:        insurance.PolicyActive,
			SumInsured:    500000,
			AnnualPremium: 18250.5,
		},
		FullName: "Asha Verma",
		Email:    "asha@example.com",
		Phone:    "+91-9000000000",
	}, nil)

	rec := doRequest(t, newE2EHandler(t, lookup), http.MethodPost, "/chat",
		`{"userId":"user-1","message":"What is the status of policy POL-100005?"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[ChatResponse](t, rec)
	assert.Contains(t, body.Answer, "ACTIVE")

	toolEntries := body.Data.Messages.ToolEntries("")
	require.Len(t, toolEntries, 1)
	assert.Equal(t, toolx.ToolGetPolicy, toolEntries[0].Name)
	assert.Equal(t, "call-1", toolEntries[0].ToolCallID)
	assert.Equal(t, contractx.MessageSystem, body.Data.Messages[0].Type)
}

func TestChatEndToEndPolicyNotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	lookup := insurance_mocks.NewMockLookup(ctrl)
	lookup.EXPECT().FetchPolicy(gomock.Any(), "POL-999999").Return(nil, insurance.ErrNotFound)

	rec := doRequest(t, newE2EHandler(t, lookup), http.MethodPost, "/chat",
		`{"userId":"user-1","message":"What is the status of policy POL-999999?"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[ChatResponse](t, rec)
	assert.Contains(t, body.Answer, "could not find policy POL-999999")
	assert.Len(t, body.Data.Messages.ToolEntries(toolx.ToolGetPolicy), 1)
}

func TestChatEndToEndStoreDown(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	lookup := insurance_mocks.NewMockLookup(ctrl)
	lookup.EXPECT().FetchPolicy(gomock.Any(), "POL-100005").Return(nil, errors.New("dial tcp 127.0.0.1:5432: connection refused"))

	rec := doRequest(t, newE2EHandler(t, lookup), http.MethodPost, "/chat",
		`{"userId":"user-1","message":"What is the status of policy POL-100005?"}`, nil)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
	assert.Equal(t, msgStoreUnavailable, decodeBody[ErrorResponse](t, rec).Error)
}
