package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"tripcrew/internal/planner"
)

// recorder is a deterministic capability that answers from a script keyed by
// stage name and remembers every invocation.
type recorder struct {
	mu      sync.Mutex
	calls   []Invocation
	answers map[string][]string
	fail    map[string]error
	closed  bool
}

func newRecorder() *recorder {
	return &recorder{answers: map[string][]string{}, fail: map[string]error{}}
}

func (r *recorder) Invoke(_ context.Context, inv Invocation) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, inv)
	if err := r.fail[inv.Stage]; err != nil {
		return "", err
	}
	queue := r.answers[inv.Stage]
	if len(queue) == 0 {
		return inv.Stage + " output", nil
	}
	answer := queue[0]
	if len(queue) > 1 {
		r.answers[inv.Stage] = queue[1:]
	}
	return answer, nil
}

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

func (r *recorder) factory() CapabilityFactory {
	return func(context.Context, CapabilityConfig) (Capability, error) { return r, nil }
}

func (r *recorder) stages() []string {
	var names []string
	for _, c := range r.calls {
		names = append(names, c.Stage)
	}
	return names
}

func groupTrip(t *testing.T) TripContext {
	t.Helper()
	window, err := planner.ExpandDateRange("2025-10-06", "2025-10-06")
	require.NoError(t, err)
	hours, err := planner.ParseTimeWindow("", "")
	require.NoError(t, err)

	return TripContext{
		Destination: "Northern Virginia",
		Budget:      "moderate",
		Window:      window,
		Hours:       hours,
		Interests: planner.AggregateInterests([]planner.Person{
			{Name: "Samantha", Interests: planner.InterestList{"museums", "art", "food"}},
			{Name: "John", Interests: planner.InterestList{"food", "nightlife", "comedy"}},
			{Name: "Kyle", Interests: planner.InterestList{"pickleball", "nightlife", "asian food"}},
		}),
	}
}

const fullCoverage = `<coverage>{"Food":"Pho 75","Nightlife":"Clarendon Ballroom","Museums":"Udvar-Hazy Center","Art":"Torpedo Factory","Comedy":"Arlington Drafthouse","Pickleball":"Reston Rec Center","Asian Food":"Pho 75"}</coverage>`

const fullSchedule = "```markdown\n# Itinerary for Northern Virginia\n## DAY 1 - 2025-10-06\n" +
	"Food, Nightlife, Museums, Art, Comedy, Pickleball, Asian Food\n```"

func TestOrchestrator_ThreeStageEndToEnd(t *testing.T) {
	rec := newRecorder()
	rec.answers[StageDiscovery] = []string{"candidate venues"}
	rec.answers[StageSelection] = []string{"picked venues\n" + fullCoverage}
	rec.answers[StageScheduling] = []string{fullSchedule}

	orch, err := NewOrchestrator(ThreeStagePipeline(), rec.factory())
	require.NoError(t, err)

	trip := groupTrip(t)
	assert.Equal(t, []string{"Food", "Nightlife"}, trip.Interests.PriorityInterests[:2])

	res, err := orch.Run(context.Background(), trip)
	require.NoError(t, err)

	assert.Equal(t, []string{StageDiscovery, StageSelection, StageScheduling}, rec.stages())
	assert.Empty(t, rec.calls[0].Context)
	assert.Equal(t, []string{"candidate venues"}, rec.calls[1].Context)
	assert.Equal(t, []string{"candidate venues", "picked venues\n" + fullCoverage}, rec.calls[2].Context)

	assert.Contains(t, rec.calls[0].Task, "Northern Virginia")
	assert.Contains(t, rec.calls[0].Task, "Food, Nightlife, Museums")
	assert.Contains(t, rec.calls[1].Task, "<coverage>")
	assert.Contains(t, rec.calls[2].Task, "between 09:00 and 22:00")
	assert.True(t, rec.calls[0].UseSearch)
	assert.False(t, rec.calls[2].UseSearch)

	assert.True(t, strings.HasPrefix(res.Itinerary, "# Itinerary for Northern Virginia"))
	assert.NotContains(t, res.Itinerary, "```")
	assert.Empty(t, res.CoverageGaps)
	require.Len(t, res.Stages, 3)
	assert.Equal(t, 1, res.Stages[1].Attempts)
	assert.Equal(t, "Reston Rec Center", res.Stages[1].Coverage["Pickleball"])
	assert.True(t, rec.closed)
}

func TestOrchestrator_SingleStage(t *testing.T) {
	rec := newRecorder()
	rec.answers[StageItinerary] = []string{fullSchedule}

	stages, err := Preset(PresetSingleStage)
	require.NoError(t, err)
	orch, err := NewOrchestrator(stages, rec.factory())
	require.NoError(t, err)

	res, err := orch.Run(context.Background(), groupTrip(t))
	require.NoError(t, err)
	assert.Equal(t, []string{StageItinerary}, rec.stages())
	assert.Contains(t, res.Itinerary, "## DAY 1 - 2025-10-06")
}

func TestOrchestrator_ForwardDependencyRejectedBeforeAnyCall(t *testing.T) {
	calls := 0
	factory := func(context.Context, CapabilityConfig) (Capability, error) {
		calls++
		return CapabilityFunc(func(context.Context, Invocation) (string, error) {
			calls++
			return "", nil
		}), nil
	}

	cases := map[string][]StageSpec{
		"forward": {
			{Name: "a", Task: "t", DependsOn: []string{"b"}},
			{Name: "b", Task: "t"},
		},
		"missing": {
			{Name: "a", Task: "t", DependsOn: []string{"ghost"}},
		},
		"self": {
			{Name: "a", Task: "t", DependsOn: []string{"a"}},
		},
		"duplicate": {
			{Name: "a", Task: "t"},
			{Name: "a", Task: "t"},
		},
		"padded name": {
			{Name: "a", Task: "t"},
			{Name: " b", Task: "t"},
			{Name: "c", Task: "t", DependsOn: []string{"b"}},
		},
		"unnamed":   {{Task: "t"}},
		"no task":   {{Name: "a"}},
		"empty":     {},
		"bad field": {{Name: "a", Task: "{{.Nowhere}}"}},
		"bad parse": {{Name: "a", Task: "{{.Destination"}},
	}

	for name, stages := range cases {
		t.Run(name, func(t *testing.T) {
			orch, err := NewOrchestrator(stages, factory)
			assert.Nil(t, orch)
			assert.ErrorIs(t, err, ErrInvalidPipelineConfig)
		})
	}
	assert.Zero(t, calls)
}

func TestOrchestrator_StageFailureStopsRun(t *testing.T) {
	rec := newRecorder()
	boom := errors.New("upstream 503")
	rec.fail[StageSelection] = boom

	orch, err := NewOrchestrator(ThreeStagePipeline(), rec.factory())
	require.NoError(t, err)

	res, err := orch.Run(context.Background(), groupTrip(t))
	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStageExecutionFailed)
	assert.ErrorIs(t, err, boom)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageSelection, stageErr.Stage)
	assert.Equal(t, []string{StageDiscovery, StageSelection}, rec.stages())
}

func TestOrchestrator_FactoryFailure(t *testing.T) {
	orch, err := NewOrchestrator(ThreeStagePipeline(), func(context.Context, CapabilityConfig) (Capability, error) {
		return nil, errors.New("no credentials")
	})
	require.NoError(t, err)

	_, err = orch.Run(context.Background(), groupTrip(t))
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageDiscovery, stageErr.Stage)
}

func TestOrchestrator_PassesRateCeiling(t *testing.T) {
	var got CapabilityConfig
	rec := newRecorder()
	orch, err := NewOrchestrator(SingleStagePipeline(), func(_ context.Context, cfg CapabilityConfig) (Capability, error) {
		got = cfg
		return rec, nil
	}, WithRateLimit(2))
	require.NoError(t, err)

	_, err = orch.Run(context.Background(), groupTrip(t))
	require.NoError(t, err)
	assert.Equal(t, 2, got.MaxRPM)
}

func TestOrchestrator_CoverageFallbackQuery(t *testing.T) {
	rec := newRecorder()
	partial := `<coverage>{"Food":"Pho 75","Nightlife":"Clarendon Ballroom","Museums":"Udvar-Hazy Center","Art":"Torpedo Factory","Comedy":"Arlington Drafthouse","Asian Food":"Pho 75"}</coverage>`
	rec.answers[StageSelection] = []string{"first try\n" + partial, "second try\n" + fullCoverage}
	rec.answers[StageScheduling] = []string{fullSchedule}

	orch, err := NewOrchestrator(ThreeStagePipeline(), rec.factory())
	require.NoError(t, err)

	res, err := orch.Run(context.Background(), groupTrip(t))
	require.NoError(t, err)

	assert.Equal(t, []string{StageDiscovery, StageSelection, StageSelection, StageScheduling}, rec.stages())
	fallback := rec.calls[2]
	assert.Contains(t, fallback.Task, "FALLBACK")
	assert.Contains(t, fallback.Task, "had no concrete recommendation for: Pickleball.")
	assert.Equal(t, "first try\n"+partial, fallback.Context[len(fallback.Context)-1])

	assert.Equal(t, 2, res.Stages[1].Attempts)
	assert.Equal(t, "second try\n"+fullCoverage, res.Stages[1].Text)
	assert.Equal(t, res.Stages[1].Text, rec.calls[3].Context[1])
}

func TestOrchestrator_CoverageFallbackBounded(t *testing.T) {
	rec := newRecorder()
	rec.answers[StageSelection] = []string{"nothing useful"}
	rec.answers[StageScheduling] = []string{fullSchedule}

	orch, err := NewOrchestrator(ThreeStagePipeline(), rec.factory(), WithCoverageRetries(2))
	require.NoError(t, err)

	res, err := orch.Run(context.Background(), groupTrip(t))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Stages[1].Attempts)

	rec = newRecorder()
	rec.answers[StageScheduling] = []string{fullSchedule}
	orch, err = NewOrchestrator(ThreeStagePipeline(), rec.factory(), WithCoverageRetries(0))
	require.NoError(t, err)
	_, err = orch.Run(context.Background(), groupTrip(t))
	require.NoError(t, err)
	assert.Len(t, rec.calls, 3)
}

func TestOrchestrator_CoverageGapIsSoftByDefault(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rec := newRecorder()
	rec.answers[StageSelection] = []string{fullCoverage}
	rec.answers[StageScheduling] = []string{"# Itinerary\nFood and Nightlife only"}

	orch, err := NewOrchestrator(ThreeStagePipeline(), rec.factory(), WithLogger(zap.New(core)))
	require.NoError(t, err)

	res, err := orch.Run(context.Background(), groupTrip(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Museums", "Art", "Comedy", "Pickleball", "Asian Food"}, res.CoverageGaps)
	assert.Equal(t, "# Itinerary\nFood and Nightlife only", res.Itinerary)
	assert.Equal(t, 1, logs.FilterMessage("coverage gap in itinerary").Len())
}

func TestOrchestrator_StrictCoverage(t *testing.T) {
	rec := newRecorder()
	rec.answers[StageSelection] = []string{fullCoverage}
	rec.answers[StageScheduling] = []string{"# Itinerary\nFood only"}

	orch, err := NewOrchestrator(ThreeStagePipeline(), rec.factory(), WithStrictCoverage(true))
	require.NoError(t, err)

	res, err := orch.Run(context.Background(), groupTrip(t))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrCoverageGap)

	var covErr *CoverageError
	require.ErrorAs(t, err, &covErr)
	assert.Contains(t, covErr.Missing, "Pickleball")
	assert.NotContains(t, covErr.Missing, "Food")
}

func TestOrchestrator_StageNames(t *testing.T) {
	orch, err := NewOrchestrator(ThreeStagePipeline(), newRecorder().factory())
	require.NoError(t, err)
	assert.Equal(t, []string{StageDiscovery, StageSelection, StageScheduling}, orch.StageNames())
}

func TestPreset_Unknown(t *testing.T) {
	_, err := Preset("five-stage")
	assert.ErrorIs(t, err, ErrInvalidPipelineConfig)

	stages, err := Preset("")
	require.NoError(t, err)
	assert.Len(t, stages, 3)
}

func TestPresetMaxRPM(t *testing.T) {
	assert.Equal(t, 10, PresetMaxRPM(""))
	assert.Equal(t, 10, PresetMaxRPM(PresetThreeStage))
	assert.Equal(t, 2, PresetMaxRPM(PresetSingleStage))
	assert.Equal(t, 2, PresetMaxRPM(" Single-Stage "))
}
