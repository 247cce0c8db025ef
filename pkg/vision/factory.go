package vision

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/denimworks/qc-engine/pkg/config"
)

// NewAnalyzer creates the analyzer selected by configuration.
func NewAnalyzer(cfg *config.VisionConfig, logger *zap.Logger) (Analyzer, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	switch cfg.Provider {
	case "openai":
		return NewOpenAIAnalyzer(&OpenAIConfig{
			Endpoint:  cfg.Endpoint,
			Model:     cfg.Model,
			APIKey:    cfg.APIKey,
			MaxTokens: cfg.MaxTokens,
			Timeout:   timeout,
		}, logger)
	case "anthropic":
		return NewAnthropicAnalyzer(&AnthropicConfig{
			Model:     cfg.Model,
			APIKey:    cfg.APIKey,
			MaxTokens: cfg.MaxTokens,
			Timeout:   timeout,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown vision provider: %s", cfg.Provider)
	}
}
