package contract

import "strings"

// MessageType tags a transcript entry.
type MessageType string

const (
	MessageSystem    MessageType = "system"
	MessageUser      MessageType = "user"
	MessageAssistant MessageType = "assistant"
	MessageTool      MessageType = "tool"
)

type ToolCallRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}

// Message is one transcript entry. Name and ToolCallID are set on tool entries,
// ToolCalls on assistant entries that requested tools.
type Message struct {
	Type       MessageType   `json:"type"`
	Content    string        `json:"content"`
	Name       string        `json:"name,omitempty"`
	ToolCallID string        `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCallRef `json:"tool_calls,omitempty"`
}

func SystemMessage(content string) Message {
	return Message{Type: MessageSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Type: MessageUser, Content: content}
}

func AssistantMessage(content string, calls ...ToolCallRef) Message {
	return Message{Type: MessageAssistant, Content: content, ToolCalls: calls}
}

func ToolMessage(name, callID, content string) Message {
	return Message{Type: MessageTool, Name: name, ToolCallID: callID, Content: content}
}

type Transcript []Message

// Answer is the text of the last assistant entry without tool calls.
func (t Transcript) Answer() string {
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].Type == MessageAssistant && len(t[i].ToolCalls) == 0 {
			return strings.TrimSpace(t[i].Content)
		}
	}
	return ""
}

func (t Transcript) ToolEntries(name string) []Message {
	var out []Message
	for _, m := range t {
		if m.Type == MessageTool && (name == "" || m.Name == name) {
			out = append(out, m)
		}
	}
	return out
}

type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type AgentRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type AgentResponse struct {
	Answer     string     `json:"answer"`
	Transcript Transcript `json:"transcript"`
	Steps      int        `json:"steps"`
}
