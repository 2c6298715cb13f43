package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

type OpenAIClient struct {
	client *openai.Client
	models []string
	log    *zap.Logger
}

// NewOpenAIClient builds a chat client that walks models in order until one
// answers. baseURL is optional and points the client at a compatible API.
func NewOpenAIClient(apiKey, baseURL string, models []string, log *zap.Logger) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if len(models) == 0 {
		models = []string{openai.GPT4oMini}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		models: models,
		log:    log,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	var errs []error
	for _, model := range c.models {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:            model,
			Messages:         messages,
			MaxTokens:        req.MaxTokens,
			Temperature:      req.Temperature,
			TopP:             req.TopP,
			FrequencyPenalty: req.FrequencyPenalty,
			PresencePenalty:  req.PresencePenalty,
		})
		if err != nil {
			c.log.Warn("openai model failed", zap.String("model", model), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", model, err))
			continue
		}
		if len(resp.Choices) == 0 {
			errs = append(errs, fmt.Errorf("%s: no choices returned", model))
			continue
		}

		content := strings.TrimSpace(resp.Choices[0].Message.Content)
		if content == "" {
			errs = append(errs, fmt.Errorf("%s: empty content", model))
			continue
		}

		used := resp.Model
		if used == "" {
			used = model
		}
		return &Completion{
			Content:    content,
			Model:      used,
			TokensUsed: resp.Usage.TotalTokens,
		}, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrUnexpectedBehaviorOfAI, errors.Join(errs...))
}
