// Package providers holds the generation-service clients used by the
// sanitize-then-generate flow. The gateway only forwards a prompt after
// the guard has cleared (or redacted) it.
package providers

import "context"

type Config struct {
	APIKey       string
	Model        string
	MaxTokens    int
	Temperature  float64
	SystemPrompt string
}

type CompletionResponse struct {
	ID       string `json:"id"`
	Model    string `json:"model"`
	Response string `json:"response"`
	Usage    Usage  `json:"usage"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Client interface {
	Ask(ctx context.Context, prompt string) (*CompletionResponse, error)
}
