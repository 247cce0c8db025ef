package vision

import (
	"context"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/denimworks/qc-engine/pkg/prompts"
)

// AnthropicAnalyzer talks to the Anthropic Messages API.
type AnthropicAnalyzer struct {
	client    *anthropic.Client
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *zap.Logger
}

// AnthropicConfig holds configuration for creating an Anthropic analyzer.
type AnthropicConfig struct {
	Model     string
	APIKey    string
	MaxTokens int
	Timeout   time.Duration
}

// NewAnthropicAnalyzer creates an analyzer backed by the Anthropic API.
func NewAnthropicAnalyzer(cfg *AnthropicConfig, logger *zap.Logger) (*AnthropicAnalyzer, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	return &AnthropicAnalyzer{
		client:    anthropic.NewClient(cfg.APIKey),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    logger.Named("vision"),
	}, nil
}

// AnalyzeGarment implements Analyzer.
func (a *AnthropicAnalyzer) AnalyzeGarment(ctx context.Context, imageDataURL string) (string, error) {
	mediaType, data := SplitDataURL(imageDataURL)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt := prompts.BuildInspectionPrompt()

	start := time.Now()

	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{
					Type: "image",
					Source: &anthropic.MessageContentSource{
						Type:      "base64",
						MediaType: mediaType,
						Data:      data,
					},
				},
				{Type: "text", Text: &prompt},
			}},
		},
	})
	if err != nil {
		a.logger.Error("vision request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", ClassifyError(err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			a.logger.Info("vision request completed",
				zap.Duration("elapsed", time.Since(start)))
			return *block.Text, nil
		}
	}

	return "", fmt.Errorf("no text content in response")
}

// Model implements Analyzer.
func (a *AnthropicAnalyzer) Model() string {
	return a.model
}

// Ensure AnthropicAnalyzer implements Analyzer at compile time.
var _ Analyzer = (*AnthropicAnalyzer)(nil)
