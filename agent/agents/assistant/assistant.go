package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/agentic-insurance-assistant/agent/contract"
	llmx "github.com/tanpawarit/agentic-insurance-assistant/agent/llm"
	toolx "github.com/tanpawarit/agentic-insurance-assistant/agent/tool"
)

var _ contractx.Agent = (*Assistant)(nil)

// Assistant runs the decide/invoke loop for one request at a time. It holds no
// per-request state and is safe for concurrent use.
type Assistant struct {
	stepRunner   compose.Runnable[[]*schema.Message, *schema.Message]
	systemPrompt string
	executor     toolx.Executor
	maxSteps     int
}

func New(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	tools []*schema.ToolInfo,
	executor toolx.Executor,
	maxSteps int,
) (*Assistant, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if executor == nil {
		return nil, errors.New("tool executor is required")
	}
	systemPrompt = strings.TrimSpace(systemPrompt)
	if systemPrompt == "" {
		return nil, fmt.Errorf("%w: assistant system prompt", contractx.ErrPromptMissing)
	}
	if maxSteps <= 0 {
		maxSteps = llmx.DefaultMaxSteps
	}

	toolModel, err := chatModel.WithTools(tools)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
	}
	stepRunner, err := compileStepGraph(ctx, toolModel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}

	return &Assistant{
		stepRunner:   stepRunner,
		systemPrompt: systemPrompt,
		executor:     executor,
		maxSteps:     maxSteps,
	}, nil
}

func (a *Assistant) Run(ctx context.Context, req contractx.AgentRequest) (contractx.AgentResponse, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return contractx.AgentResponse{}, fmt.Errorf("%w: message is empty", contractx.ErrValidation)
	}

	logger := zerolog.Ctx(ctx)
	messages := []*schema.Message{
		schema.SystemMessage(a.systemPrompt),
		schema.UserMessage(text),
	}
	transcript := contractx.Transcript{
		contractx.SystemMessage(a.systemPrompt),
		contractx.UserMessage(text),
	}

	for step := 1; step <= a.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return contractx.AgentResponse{}, fmt.Errorf("step %d: %w", step, err)
		}

		msg, err := a.stepRunner.Invoke(ctx, messages)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return contractx.AgentResponse{}, fmt.Errorf("step %d: %w", step, ctxErr)
			}
			return contractx.AgentResponse{}, fmt.Errorf("%w: step %d: %v", contractx.ErrModelInvoke, step, err)
		}
		if msg == nil {
			return contractx.AgentResponse{}, fmt.Errorf("%w: empty model response at step %d", contractx.ErrSchemaViolation, step)
		}

		assignCallIDs(msg, step)
		messages = append(messages, msg)
		transcript = append(transcript, contractx.AssistantMessage(msg.Content, toCallRefs(msg.ToolCalls)...))

		logger.Debug().Int("step", step).Int("tool_calls", len(msg.ToolCalls)).Msg("assistant step")

		if len(msg.ToolCalls) == 0 {
			answer := transcript.Answer()
			if answer == "" {
				return contractx.AgentResponse{}, fmt.Errorf("%w: final answer is empty", contractx.ErrSchemaViolation)
			}
			return contractx.AgentResponse{
				Answer:     answer,
				Transcript: transcript,
				Steps:      step,
			}, nil
		}

		// Tool calls run one at a time, in the order the model listed them.
		for _, call := range msg.ToolCalls {
			name := strings.TrimSpace(call.Function.Name)
			content, err := a.invokeTool(ctx, name, call.Function.Arguments)
			if err != nil {
				return contractx.AgentResponse{}, fmt.Errorf("tool=%s: %w", name, err)
			}
			messages = append(messages, &schema.Message{
				Role:       schema.Tool,
				Content:    content,
				ToolCallID: call.ID,
			})
			transcript = append(transcript, contractx.ToolMessage(name, call.ID, content))
		}
	}

	return contractx.AgentResponse{}, fmt.Errorf("%w: limit=%d", contractx.ErrMaxSteps, a.maxSteps)
}

func (a *Assistant) invokeTool(ctx context.Context, name, rawArgs string) (string, error) {
	args := map[string]any{}
	if trimmed := strings.TrimSpace(rawArgs); trimmed != "" {
		if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
			return encodeToolResult(contractx.ToolResult{
				Tool:  name,
				Error: fmt.Sprintf("invalid arguments for tool=%s: %v", name, err),
			})
		}
	}

	result, err := a.executor(ctx, name, args)
	if err != nil {
		return "", err
	}
	return encodeToolResult(result)
}

func encodeToolResult(result contractx.ToolResult) (string, error) {
	var payload any = result.Result
	if result.Error != "" {
		payload = map[string]string{"error": result.Error}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal result of tool=%s: %v", contractx.ErrValidation, result.Tool, err)
	}
	return string(raw), nil
}

func assignCallIDs(msg *schema.Message, step int) {
	for i := range msg.ToolCalls {
		if strings.TrimSpace(msg.ToolCalls[i].ID) == "" {
			msg.ToolCalls[i].ID = fmt.Sprintf("call_%d_%d", step, i)
		}
	}
}

func toCallRefs(calls []schema.ToolCall) []contractx.ToolCallRef {
	if len(calls) == 0 {
		return nil
	}
	refs := make([]contractx.ToolCallRef, 0, len(calls))
	for _, call := range calls {
		refs = append(refs, contractx.ToolCallRef{
			ID:        call.ID,
			Name:      strings.TrimSpace(call.Function.Name),
			Arguments: call.Function.Arguments,
		})
	}
	return refs
}
