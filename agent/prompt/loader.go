package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/agentic-insurance-assistant/agent/contract"
)

//go:embed template/insurance.txt
var insuranceRaw string

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Assistant string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Assistant: strings.TrimSpace(insuranceRaw),
	}
}

func (p PromptSet) Validate() error {
	if strings.TrimSpace(p.Assistant) == "" {
		return fmt.Errorf("%w: assistant system prompt", contractx.ErrPromptMissing)
	}
	return nil
}
