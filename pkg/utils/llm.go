package utils

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	FallbackModel = "fallback"
	DemoModel     = "demo"
)

type ChatMessage struct {
	Role    string
	Content string
}

// CompletionRequest is provider neutral. Messages must end with the user
// turn that is being answered.
type CompletionRequest struct {
	System           string
	Messages         []ChatMessage
	MaxTokens        int
	Temperature      float32
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32

	// UserName personalises the demo reply only.
	UserName string
}

type Completion struct {
	Content    string
	Model      string
	TokensUsed int
}

type LLMClientInterface interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

// LLMSettings selects and configures a provider.
type LLMSettings struct {
	Provider      string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModels  []string
	GeminiAPIKey  string
	GeminiModel   string
}

// NewLLMClient picks the provider from settings. A provider without an
// API key degrades to the demo client so local runs work offline.
func NewLLMClient(ctx context.Context, cfg LLMSettings, log *zap.Logger) (LLMClientInterface, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Warn("OPENAI_API_KEY not set, chat runs in demo mode")
			return NewDemoClient(), nil
		}
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModels, log), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			log.Warn("GEMINI_API_KEY not set, chat runs in demo mode")
			return NewDemoClient(), nil
		}
		client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "demo":
		return NewDemoClient(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

func lastUserMessage(msgs []ChatMessage) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}
