package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/SudityaKulkarni/LLM-gateway/pkg/infra/providers"
)

type client struct {
	cfg       providers.Config
	anthropic anthropic.Client
}

func NewClient(cfg providers.Config) (providers.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	return &client{
		cfg:       cfg,
		anthropic: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
	}, nil
}

func (c *client) Ask(ctx context.Context, prompt string) (*providers.CompletionResponse, error) {
	model := anthropic.ModelClaude3_5HaikuLatest
	if c.cfg.Model != "" {
		model = anthropic.Model(c.cfg.Model)
	}

	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: int64(c.cfg.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if c.cfg.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: c.cfg.SystemPrompt, Type: "text"},
		}
	}
	if c.cfg.Temperature > 0 {
		params.Temperature = anthropic.Float(c.cfg.Temperature)
	}

	message, err := c.anthropic.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}
	if len(message.Content) == 0 {
		return nil, fmt.Errorf("no completions returned")
	}

	var responseText string
	for _, content := range message.Content {
		if content.Type == "text" {
			responseText = content.Text
			break
		}
	}
	if responseText == "" {
		return nil, fmt.Errorf("no text content returned")
	}

	return &providers.CompletionResponse{
		ID:       message.ID,
		Model:    string(model),
		Response: responseText,
		Usage: providers.Usage{
			PromptTokens:     int(message.Usage.InputTokens),
			CompletionTokens: int(message.Usage.OutputTokens),
			TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
		},
	}, nil
}
