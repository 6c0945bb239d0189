package agent_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripcrew/internal/config"
	"tripcrew/internal/pipeline"
	"tripcrew/pkg/agent"
)

var Module = fx.Provide(ProvideCapabilityFactory)

// ProvideCapabilityFactory hands out a factory, not a client: each request
// gets its own model and search clients.
func ProvideCapabilityFactory(cfg *config.Config, logger *zap.Logger) (pipeline.CapabilityFactory, error) {
	logger.Info("configuring model provider",
		zap.String("provider", cfg.LLMProvider),
		zap.String("model", cfg.LLMModel),
		zap.Int("max_rpm", cfg.MaxRPM))
	return agent.NewFactory(cfg.AgentConfig(), logger.Named("agent"))
}
