package pipeline

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"tripcrew/internal/planner"
)

const DefaultCoverageRetries = 1

// StageOutput is one entry of a run's append-only stage log.
type StageOutput struct {
	Stage    string
	Text     string
	Coverage map[string]string
	Attempts int
	Duration time.Duration
}

// Result is a finished run. Itinerary is already sanitized.
type Result struct {
	Itinerary    string
	Stages       []StageOutput
	CoverageGaps []string
}

// Orchestrator runs a fixed, validated sequence of stages one after another.
// It holds no per-run state and may be reused, but each Run asks the factory
// for a fresh capability.
type Orchestrator struct {
	stages          []*compiledStage
	factory         CapabilityFactory
	logger          *zap.Logger
	maxRPM          int
	coverageRetries int
	strictCoverage  bool
}

type Option func(*Orchestrator)

func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRateLimit passes an invocations-per-minute ceiling to the capability.
func WithRateLimit(rpm int) Option {
	return func(o *Orchestrator) { o.maxRPM = rpm }
}

// WithCoverageRetries sets how many fallback queries a coverage-checked stage
// may issue for missing interests.
func WithCoverageRetries(n int) Option {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.coverageRetries = n
		}
	}
}

// WithStrictCoverage makes an itinerary that misses a priority interest fail
// the run instead of only being reported.
func WithStrictCoverage(strict bool) Option {
	return func(o *Orchestrator) { o.strictCoverage = strict }
}

// NewOrchestrator validates the stage graph and templates. Nothing is sent to
// the capability until Run.
func NewOrchestrator(stages []StageSpec, factory CapabilityFactory, opts ...Option) (*Orchestrator, error) {
	if factory == nil {
		return nil, configError("no capability factory")
	}
	if err := validateStages(stages); err != nil {
		return nil, err
	}

	o := &Orchestrator{
		factory:         factory,
		logger:          zap.NewNop(),
		coverageRetries: DefaultCoverageRetries,
	}
	for _, opt := range opts {
		opt(o)
	}

	for _, spec := range stages {
		cs, err := compileStage(spec)
		if err != nil {
			return nil, err
		}
		o.stages = append(o.stages, cs)
	}
	return o, nil
}

// StageNames lists stages in execution order.
func (o *Orchestrator) StageNames() []string {
	names := make([]string, 0, len(o.stages))
	for _, s := range o.stages {
		names = append(names, s.spec.Name)
	}
	return names
}

// Run executes every stage in order against a fresh capability. Any stage
// failure aborts the run and no itinerary text is returned.
func (o *Orchestrator) Run(ctx context.Context, tc TripContext) (*Result, error) {
	capability, err := o.factory(ctx, CapabilityConfig{MaxRPM: o.maxRPM})
	if err != nil {
		return nil, &StageError{Stage: o.stages[0].spec.Name, Err: err}
	}
	if closer, ok := capability.(io.Closer); ok {
		defer func() {
			if cerr := closer.Close(); cerr != nil {
				o.logger.Warn("closing capability", zap.Error(cerr))
			}
		}()
	}

	data := newPromptData(tc)
	priority := tc.Interests.PriorityInterests
	stageLog := make([]StageOutput, 0, len(o.stages))
	index := make(map[string]int, len(o.stages))

	for _, stage := range o.stages {
		inv, err := stage.render(data)
		if err != nil {
			return nil, configError("%v", err)
		}
		for _, dep := range stage.spec.DependsOn {
			pos, ok := index[dep]
			if !ok {
				return nil, configError("stage %q depends on %q which has not run", stage.spec.Name, dep)
			}
			inv.Context = append(inv.Context, stageLog[pos].Text)
		}

		out, err := o.runStage(ctx, capability, stage, inv, tc.Destination, priority)
		if err != nil {
			return nil, err
		}
		index[stage.spec.Name] = len(stageLog)
		stageLog = append(stageLog, out)
	}

	itinerary := planner.Sanitize(stageLog[len(stageLog)-1].Text)
	gaps := MissingInterests(itinerary, priority)
	if len(gaps) > 0 {
		o.logger.Warn("coverage gap in itinerary",
			zap.String("destination", tc.Destination),
			zap.Strings("missing", gaps),
			zap.Bool("strict", o.strictCoverage))
		if o.strictCoverage {
			return nil, &CoverageError{Missing: gaps}
		}
	}

	return &Result{
		Itinerary:    itinerary,
		Stages:       stageLog,
		CoverageGaps: gaps,
	}, nil
}

func (o *Orchestrator) runStage(
	ctx context.Context,
	capability Capability,
	stage *compiledStage,
	inv Invocation,
	destination string,
	priority []string,
) (StageOutput, error) {
	name := stage.spec.Name
	started := time.Now()
	o.logger.Info("stage started", zap.String("stage", name), zap.Int("context_items", len(inv.Context)))

	text, err := capability.Invoke(ctx, inv)
	if err != nil {
		return StageOutput{}, &StageError{Stage: name, Err: err}
	}
	out := StageOutput{Stage: name, Text: text, Attempts: 1}

	if stage.spec.CoverageAnnex && len(priority) > 0 {
		annex, missing := stageCoverage(text, priority)
		for attempt := 0; len(missing) > 0 && attempt < o.coverageRetries; attempt++ {
			o.logger.Info("stage missing coverage, issuing fallback query",
				zap.String("stage", name),
				zap.Strings("missing", missing))

			retry := inv
			retry.Task = inv.Task + "\n\n" + fallbackInstruction(missing, destination)
			retry.Context = append(append([]string(nil), inv.Context...), text)

			text, err = capability.Invoke(ctx, retry)
			if err != nil {
				return StageOutput{}, &StageError{Stage: name, Err: err}
			}
			out.Text = text
			out.Attempts++
			annex, missing = stageCoverage(text, priority)
		}
		out.Coverage = annex
		if len(missing) > 0 {
			o.logger.Warn("stage coverage gap after fallback",
				zap.String("stage", name),
				zap.Strings("missing", missing))
		}
	}

	out.Duration = time.Since(started)
	o.logger.Info("stage finished",
		zap.String("stage", name),
		zap.Int("attempts", out.Attempts),
		zap.Duration("duration", out.Duration))
	return out, nil
}
