package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tripcrew/cmd/fx/itinerary_fx"
	"tripcrew/internal/config"
	"tripcrew/internal/pipeline"
	"tripcrew/internal/services"
)

var errNoModel = errors.New("model access is disabled for this command")

func newContextCmd() *cobra.Command {
	var file, preset, pipelineFile string

	cmd := &cobra.Command{
		Use:   "context",
		Short: "Show the computed trip context without calling a model",
		Long: `context prints the date range, daily window, aggregated interests and the
stages that would run. No credentials are needed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Read()
			if err != nil {
				return err
			}
			applyPipelineFlags(cfg, preset, pipelineFile)

			req, err := readGroup(cmd, file)
			if err != nil {
				return err
			}

			stages, err := itinerary_fx.ProvideStages(cfg)
			if err != nil {
				return err
			}
			noModel := func(context.Context, pipeline.CapabilityConfig) (pipeline.Capability, error) {
				return nil, errNoModel
			}
			svc, err := services.NewItineraryService(stages, noModel, itinerary_fx.ProvideSettings(cfg), nil, nil)
			if err != nil {
				return err
			}

			resp, err := svc.DescribeTripContext(req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "group request JSON file (- for stdin)")
	cmd.Flags().StringVar(&preset, "preset", "", "pipeline preset: three-stage or single-stage")
	cmd.Flags().StringVar(&pipelineFile, "pipeline", "", "YAML pipeline definition file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
