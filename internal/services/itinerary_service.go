package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tripcrew/internal/metrics"
	"tripcrew/internal/models/request_models"
	"tripcrew/internal/models/response_models"
	"tripcrew/internal/pipeline"
	"tripcrew/internal/planner"
	"tripcrew/pkg/utils"
)

type ItineraryServiceInterface interface {
	GenerateItinerary(ctx context.Context, req request_models.GroupRequest) (*response_models.ItineraryResponse, error)
	BuildTripContext(req request_models.GroupRequest) (pipeline.TripContext, error)
	DescribeTripContext(req request_models.GroupRequest) (*response_models.TripContextResponse, error)
}

// ItinerarySettings are the per-run knobs handed to every orchestrator.
type ItinerarySettings struct {
	MaxRPM          int
	CoverageRetries int
	StrictCoverage  bool
	Timeout         time.Duration
}

type ItineraryService struct {
	stages   []pipeline.StageSpec
	factory  pipeline.CapabilityFactory
	settings ItinerarySettings
	logger   *zap.Logger
	metrics  *metrics.PipelineMetrics
	stageIDs []string
}

// NewItineraryService checks the stage definitions once so a bad pipeline
// fails at startup instead of on the first request.
func NewItineraryService(
	stages []pipeline.StageSpec,
	factory pipeline.CapabilityFactory,
	settings ItinerarySettings,
	logger *zap.Logger,
	runMetrics *metrics.PipelineMetrics,
) (ItineraryServiceInterface, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ItineraryService{
		stages:   stages,
		factory:  factory,
		settings: settings,
		logger:   logger,
		metrics:  runMetrics,
	}

	orch, err := s.newOrchestrator()
	if err != nil {
		return nil, err
	}
	s.stageIDs = orch.StageNames()
	return s, nil
}

func (s *ItineraryService) newOrchestrator() (*pipeline.Orchestrator, error) {
	return pipeline.NewOrchestrator(s.stages, s.factory,
		pipeline.WithLogger(s.logger),
		pipeline.WithRateLimit(s.settings.MaxRPM),
		pipeline.WithCoverageRetries(s.settings.CoverageRetries),
		pipeline.WithStrictCoverage(s.settings.StrictCoverage),
	)
}

func (s *ItineraryService) BuildTripContext(req request_models.GroupRequest) (pipeline.TripContext, error) {
	destination := strings.TrimSpace(req.Destination)
	if destination == "" {
		return pipeline.TripContext{}, fmt.Errorf("%w: destination is required", utils.ErrInvalidInput)
	}
	if len(req.People) == 0 {
		return pipeline.TripContext{}, fmt.Errorf("%w: at least one person is required", utils.ErrInvalidInput)
	}

	window, err := planner.ExpandDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return pipeline.TripContext{}, err
	}
	hours, err := planner.ParseTimeWindow(req.StartTime, req.EndTime)
	if err != nil {
		return pipeline.TripContext{}, err
	}

	return pipeline.TripContext{
		Destination: destination,
		Budget:      strings.TrimSpace(req.Budget),
		Window:      window,
		Hours:       hours,
		Interests:   planner.AggregateInterests(req.People),
	}, nil
}

func (s *ItineraryService) DescribeTripContext(req request_models.GroupRequest) (*response_models.TripContextResponse, error) {
	tc, err := s.BuildTripContext(req)
	if err != nil {
		return nil, err
	}

	return &response_models.TripContextResponse{
		Destination:       tc.Destination,
		DurationDays:      tc.Window.DurationDays,
		Dates:             tc.Window.DateStrings(),
		StartTime:         tc.Hours.Start,
		EndTime:           tc.Hours.End,
		AllInterests:      tc.Interests.AllInterests,
		CommonInterests:   tc.Interests.CommonInterests,
		UniqueInterests:   tc.Interests.UniqueInterests,
		PriorityInterests: tc.Interests.PriorityInterests,
		Summary:           tc.Interests.Summary,
		Stages:            s.stageIDs,
	}, nil
}

// GenerateItinerary runs a fresh orchestrator for this request only. Input
// errors are returned before any model is contacted.
func (s *ItineraryService) GenerateItinerary(ctx context.Context, req request_models.GroupRequest) (*response_models.ItineraryResponse, error) {
	tc, err := s.BuildTripContext(req)
	if err != nil {
		return nil, err
	}

	orchestrator, err := s.newOrchestrator()
	if err != nil {
		return nil, err
	}

	if s.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.Timeout)
		defer cancel()
	}

	s.logger.Info("generating itinerary",
		zap.String("destination", tc.Destination),
		zap.Int("duration_days", tc.Window.DurationDays),
		zap.Int("people", len(req.People)),
		zap.Strings("priority", tc.Interests.PriorityInterests))

	started := time.Now()
	result, err := orchestrator.Run(ctx, tc)
	s.metrics.ObserveRun(result, err, time.Since(started))
	if err != nil {
		return nil, err
	}

	stages := make([]response_models.StageSummary, 0, len(result.Stages))
	for _, st := range result.Stages {
		stages = append(stages, response_models.StageSummary{
			Name:       st.Stage,
			Attempts:   st.Attempts,
			DurationMs: st.Duration.Milliseconds(),
		})
	}

	gaps := result.CoverageGaps
	if gaps == nil {
		gaps = []string{}
	}

	return &response_models.ItineraryResponse{
		Itinerary:         result.Itinerary,
		Destination:       tc.Destination,
		DurationDays:      tc.Window.DurationDays,
		Dates:             tc.Window.DateStrings(),
		StartTime:         tc.Hours.Start,
		EndTime:           tc.Hours.End,
		PriorityInterests: tc.Interests.PriorityInterests,
		CoverageGaps:      gaps,
		Stages:            stages,
	}, nil
}
