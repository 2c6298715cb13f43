package llm_fx

import (
	"context"
	"io"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"eezlegal/internal/config"
	"eezlegal/pkg/utils"
)

var Module = fx.Provide(provideLLMClient)

func provideLLMClient(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (utils.LLMClientInterface, error) {
	client, err := utils.NewLLMClient(context.Background(), utils.LLMSettings{
		Provider:      cfg.LLM.Provider,
		OpenAIAPIKey:  cfg.LLM.OpenAIAPIKey,
		OpenAIBaseURL: cfg.LLM.OpenAIBaseURL,
		OpenAIModels:  cfg.LLM.OpenAIModels,
		GeminiAPIKey:  cfg.LLM.GeminiAPIKey,
		GeminiModel:   cfg.LLM.GeminiModel,
	}, log)
	if err != nil {
		return nil, err
	}
	log.Info("llm client ready", zap.String("provider", cfg.LLM.Provider))

	if closer, ok := client.(io.Closer); ok {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return closer.Close()
			},
		})
	}
	return client, nil
}
