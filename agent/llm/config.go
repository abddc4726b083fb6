package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/agentic-insurance-assistant/agent/contract"
	openrouterx "github.com/tanpawarit/agentic-insurance-assistant/pkg/openrouter"
)

const (
	DefaultMaxSteps       = 8
	DefaultRequestTimeout = 60 * time.Second
)

// AgentConfig bounds one chat request. Read with the AGENT prefix.
type AgentConfig struct {
	MaxSteps       int           `split_words:"true" default:"8"`
	RequestTimeout time.Duration `split_words:"true" default:"60s"`
}

func (c AgentConfig) Validate() error {
	if c.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps must be > 0", contractx.ErrValidation)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be > 0", contractx.ErrValidation)
	}
	return nil
}

// Validate checks the model settings before any client is built.
func Validate(cfg openrouterx.Config) error {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return fmt.Errorf("%w: model api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return fmt.Errorf("%w: model is required", contractx.ErrValidation)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return fmt.Errorf("%w: temperature %.2f is out of range", contractx.ErrValidation, cfg.Temperature)
	}
	return nil
}
