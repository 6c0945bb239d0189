package itinerary_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripcrew/internal/config"
	"tripcrew/internal/metrics"
	"tripcrew/internal/pipeline"
	"tripcrew/internal/services"
)

var Module = fx.Provide(
	ProvideStages,
	ProvideSettings,
	ProvideItineraryService,
)

// ProvideStages loads PIPELINE_FILE when set, otherwise the named preset.
func ProvideStages(cfg *config.Config) ([]pipeline.StageSpec, error) {
	if cfg.PipelineFile != "" {
		return pipeline.LoadStagesFile(cfg.PipelineFile)
	}
	return pipeline.Preset(cfg.PipelinePreset)
}

func ProvideSettings(cfg *config.Config) services.ItinerarySettings {
	return services.ItinerarySettings{
		MaxRPM:          maxRPM(cfg),
		CoverageRetries: cfg.CoverageRetries,
		StrictCoverage:  cfg.StrictCoverage,
		Timeout:         cfg.PipelineTimeout,
	}
}

func ProvideItineraryService(
	stages []pipeline.StageSpec,
	factory pipeline.CapabilityFactory,
	settings services.ItinerarySettings,
	logger *zap.Logger,
	runMetrics *metrics.PipelineMetrics,
) (services.ItineraryServiceInterface, error) {
	return services.NewItineraryService(stages, factory, settings, logger.Named("pipeline"), runMetrics)
}

// maxRPM resolves PIPELINE_MAX_RPM: unset falls back to the ceiling of the
// selected preset, negative means no ceiling.
func maxRPM(cfg *config.Config) int {
	switch {
	case cfg.MaxRPM > 0:
		return cfg.MaxRPM
	case cfg.MaxRPM < 0:
		return 0
	case cfg.PipelineFile != "":
		return pipeline.DefaultMaxRPM
	default:
		return pipeline.PresetMaxRPM(cfg.PipelinePreset)
	}
}
