package vision

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/denimworks/qc-engine/pkg/prompts"
)

// OpenAIAnalyzer talks to any OpenAI-compatible multimodal endpoint.
type OpenAIAnalyzer struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *zap.Logger
}

// OpenAIConfig holds configuration for creating an OpenAI-compatible analyzer.
type OpenAIConfig struct {
	Endpoint  string // Base URL, e.g., "https://api.openai.com/v1"
	Model     string // Model name, e.g., "gpt-4o-mini"
	APIKey    string // Optional for local endpoints
	MaxTokens int
	Timeout   time.Duration
}

// NewOpenAIAnalyzer creates an analyzer backed by an OpenAI-compatible endpoint.
func NewOpenAIAnalyzer(cfg *OpenAIConfig, logger *zap.Logger) (*OpenAIAnalyzer, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")

	return &OpenAIAnalyzer{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    logger.Named("vision"),
	}, nil
}

// AnalyzeGarment implements Analyzer.
func (a *OpenAIAnalyzer) AnalyzeGarment(ctx context.Context, imageDataURL string) (string, error) {
	mediaType, data := SplitDataURL(imageDataURL)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	a.logger.Debug("vision request",
		zap.String("model", a.model),
		zap.String("media_type", mediaType),
		zap.Int("image_bytes", len(data)))

	start := time.Now()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: prompts.BuildInspectionPrompt(),
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: "data:" + mediaType + ";base64," + data,
						},
					},
				},
			},
		},
	})
	if err != nil {
		a.logger.Error("vision request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", ClassifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	a.logger.Info("vision request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return resp.Choices[0].Message.Content, nil
}

// Model implements Analyzer.
func (a *OpenAIAnalyzer) Model() string {
	return a.model
}

// Ensure OpenAIAnalyzer implements Analyzer at compile time.
var _ Analyzer = (*OpenAIAnalyzer)(nil)
