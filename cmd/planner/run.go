package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tripcrew/cmd/fx/agent_fx"
	"tripcrew/cmd/fx/itinerary_fx"
	"tripcrew/cmd/fx/logger_fx"
	"tripcrew/internal/config"
)

type runOptions struct {
	file     string
	preset   string
	pipeline string
	strict   bool
	asJSON   bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate an itinerary for a group",
		Example: `  planner run -f group.json
  planner run -f group.json --preset single-stage --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItinerary(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "group request JSON file (- for stdin)")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "pipeline preset: three-stage or single-stage")
	cmd.Flags().StringVar(&opts.pipeline, "pipeline", "", "YAML pipeline definition file")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when a priority interest is not covered")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the full response as JSON")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runItinerary(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyPipelineFlags(cfg, opts.preset, opts.pipeline)
	if opts.strict {
		cfg.StrictCoverage = true
	}

	req, err := readGroup(cmd, opts.file)
	if err != nil {
		return err
	}

	logger, err := logger_fx.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	factory, err := agent_fx.ProvideCapabilityFactory(cfg, logger)
	if err != nil {
		return err
	}
	stages, err := itinerary_fx.ProvideStages(cfg)
	if err != nil {
		return err
	}
	svc, err := itinerary_fx.ProvideItineraryService(stages, factory, itinerary_fx.ProvideSettings(cfg), logger, nil)
	if err != nil {
		return err
	}

	resp, err := svc.GenerateItinerary(cmd.Context(), req)
	if err != nil {
		return err
	}

	if opts.asJSON {
		return printJSON(cmd.OutOrStdout(), resp)
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.Itinerary)
	if len(resp.CoverageGaps) > 0 {
		logger.Warn("itinerary has coverage gaps", zap.Strings("missing", resp.CoverageGaps))
	}
	return nil
}

func applyPipelineFlags(cfg *config.Config, preset, pipelineFile string) {
	if preset != "" {
		cfg.PipelinePreset = preset
		cfg.PipelineFile = ""
	}
	if pipelineFile != "" {
		cfg.PipelineFile = pipelineFile
	}
}
