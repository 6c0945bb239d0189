package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tripcrew/internal/pipeline"
)

const namespace = "tripcrew"

// Run outcomes, used as the "outcome" label.
const (
	OutcomeSuccess      = "success"
	OutcomeCoverageGap  = "coverage_gap"
	OutcomeStageFailed  = "stage_failed"
	OutcomeTimeout      = "timeout"
	OutcomeConfigError  = "config_error"
	OutcomeUnknownError = "error"
)

// PipelineMetrics records itinerary runs. A nil *PipelineMetrics is valid
// and records nothing.
type PipelineMetrics struct {
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	stageDuration *prometheus.HistogramVec
	stageAttempts *prometheus.CounterVec
	stageFailures *prometheus.CounterVec
	coverageGaps  prometheus.Counter
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Itinerary pipeline runs by outcome.",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_run_duration_seconds",
			Help:      "Wall time of a full pipeline run.",
			Buckets:   []float64{5, 15, 30, 60, 120, 240, 480},
		}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of a completed stage, fallback queries included.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 240},
		}, []string{"stage"}),
		stageAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_attempts_total",
			Help:      "Capability invocations per stage, including coverage fallbacks.",
		}, []string{"stage"}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_failures_total",
			Help:      "Stages aborted by a capability error.",
		}, []string{"stage"}),
		coverageGaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coverage_gaps_total",
			Help:      "Priority interests missing from a finished itinerary.",
		}),
	}
	reg.MustRegister(m.runs, m.runDuration, m.stageDuration, m.stageAttempts, m.stageFailures, m.coverageGaps)
	return m
}

// ObserveRun records one orchestrator run. result is nil when err is set.
func (m *PipelineMetrics) ObserveRun(result *pipeline.Result, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Observe(elapsed.Seconds())

	if result != nil {
		for _, st := range result.Stages {
			m.stageDuration.WithLabelValues(st.Stage).Observe(st.Duration.Seconds())
			m.stageAttempts.WithLabelValues(st.Stage).Add(float64(st.Attempts))
		}
		m.coverageGaps.Add(float64(len(result.CoverageGaps)))
	}

	var stageErr *pipeline.StageError
	var coverageErr *pipeline.CoverageError
	if errors.As(err, &stageErr) {
		m.stageFailures.WithLabelValues(stageErr.Stage).Inc()
	}
	if errors.As(err, &coverageErr) {
		m.coverageGaps.Add(float64(len(coverageErr.Missing)))
	}

	m.runs.WithLabelValues(Outcome(result, err)).Inc()
}

// Outcome classifies a run for the outcome label.
func Outcome(result *pipeline.Result, err error) string {
	switch {
	case err == nil && result != nil && len(result.CoverageGaps) > 0:
		return OutcomeCoverageGap
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	case errors.Is(err, pipeline.ErrCoverageGap):
		return OutcomeCoverageGap
	case errors.Is(err, pipeline.ErrStageExecutionFailed):
		return OutcomeStageFailed
	case errors.Is(err, pipeline.ErrInvalidPipelineConfig):
		return OutcomeConfigError
	default:
		return OutcomeUnknownError
	}
}
