package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"tripcrew/internal/pipeline"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// FactoryConfig selects the model provider and the search credentials.
type FactoryConfig struct {
	Provider       string
	APIKey         string
	Model          string
	BaseURL        string
	SearchAPIKey   string
	SearchEngineID string
	MaxToolCalls   int
}

// NewFactory returns a factory that builds a new search client and model
// client for every pipeline run.
func NewFactory(cfg FactoryConfig, logger *zap.Logger) (pipeline.CapabilityFactory, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s. Use 'gemini' or 'openai'", cfg.Provider)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(ctx context.Context, run pipeline.CapabilityConfig) (pipeline.Capability, error) {
		google, err := NewGoogleSearch(ctx, cfg.SearchAPIKey, cfg.SearchEngineID)
		if err != nil {
			return nil, err
		}
		search := newCachedSearcher(google)

		opts := []Option{
			WithMaxRPM(run.MaxRPM),
			WithMaxToolCalls(cfg.MaxToolCalls),
			WithLogger(logger),
		}

		switch provider {
		case ProviderOpenAI:
			clientCfg := openai.DefaultConfig(cfg.APIKey)
			if cfg.BaseURL != "" {
				clientCfg.BaseURL = cfg.BaseURL
			}
			return NewOpenAIAgent(openai.NewClientWithConfig(clientCfg), cfg.Model, search, opts...), nil
		default:
			// The orchestrator closes the Gemini client when the run ends.
			return NewGeminiAgent(ctx, cfg.APIKey, cfg.Model, search, opts...)
		}
	}, nil
}
