package llm

import (
	"context"

	"github.com/RichardoC/careerbot/internal/config"
	"go.uber.org/zap"
)

// NewProvider picks the single active provider: Gemini if configured and
// usable, otherwise OpenAI, otherwise none (nil).
func NewProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) Provider {
	if cfg.GeminiAPIKey != "" {
		p, err := NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err == nil {
			logger.Info("reply provider selected", zap.String("provider", ProviderGemini), zap.String("model", cfg.GeminiModel))
			return p
		}
		logger.Warn("failed to initialize gemini", zap.Error(err))
	}
	if cfg.OpenAIAPIKey != "" {
		p, err := NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		if err == nil {
			logger.Info("reply provider selected", zap.String("provider", ProviderOpenAI), zap.String("model", cfg.OpenAIModel))
			return p
		}
		logger.Warn("failed to initialize openai", zap.Error(err))
	}
	logger.Info("no reply provider configured, using rule-based replies")
	return nil
}
