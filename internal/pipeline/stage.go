package pipeline

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"tripcrew/internal/planner"
)

// StageSpec declares one reasoning step. Role, Goal, Backstory and Task are
// text/template sources rendered against the trip context.
type StageSpec struct {
	Name           string   `yaml:"name"`
	Role           string   `yaml:"role"`
	Goal           string   `yaml:"goal"`
	Backstory      string   `yaml:"backstory"`
	Task           string   `yaml:"task"`
	ExpectedOutput string   `yaml:"expected_output"`
	DependsOn      []string `yaml:"depends_on"`
	UseSearch      bool     `yaml:"use_search"`
	// CoverageAnnex asks the stage to end with a <coverage> JSON block
	// mapping every priority interest to a venue, and turns on the
	// fallback query when interests are missing from it.
	CoverageAnnex bool `yaml:"coverage_annex"`
}

// TripContext is everything derived from the group request that stages may
// reference.
type TripContext struct {
	Destination string
	Budget      string
	Window      planner.TripWindow
	Hours       planner.TimeWindow
	Interests   planner.InterestProfile
}

// promptData is the flattened view templates see.
type promptData struct {
	Destination       string
	Budget            string
	StartDate         string
	EndDate           string
	Dates             []string
	DurationDays      int
	StartTime         string
	EndTime           string
	Priority          string
	PriorityInterests []string
	CommonInterests   []string
	UniqueInterests   []string
	Summary           string
}

func newPromptData(tc TripContext) promptData {
	budget := tc.Budget
	if budget == "" {
		budget = "moderate"
	}
	return promptData{
		Destination:       tc.Destination,
		Budget:            budget,
		StartDate:         tc.Window.StartString(),
		EndDate:           tc.Window.EndString(),
		Dates:             tc.Window.DateStrings(),
		DurationDays:      tc.Window.DurationDays,
		StartTime:         tc.Hours.Start,
		EndTime:           tc.Hours.End,
		Priority:          tc.Interests.PriorityList(),
		PriorityInterests: tc.Interests.PriorityInterests,
		CommonInterests:   tc.Interests.CommonInterests,
		UniqueInterests:   tc.Interests.UniqueInterests,
		Summary:           tc.Interests.Summary,
	}
}

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"orNone": func(items []string) string {
		if len(items) == 0 {
			return "None"
		}
		return strings.Join(items, ", ")
	},
}

type compiledStage struct {
	spec      StageSpec
	role      *template.Template
	goal      *template.Template
	backstory *template.Template
	task      *template.Template
}

func compileStage(spec StageSpec) (*compiledStage, error) {
	cs := &compiledStage{spec: spec}
	fields := []struct {
		name string
		src  string
		dst  **template.Template
	}{
		{"role", spec.Role, &cs.role},
		{"goal", spec.Goal, &cs.goal},
		{"backstory", spec.Backstory, &cs.backstory},
		{"task", spec.Task, &cs.task},
	}
	for _, f := range fields {
		tmpl, err := template.New(spec.Name + "." + f.name).
			Option("missingkey=error").
			Funcs(templateFuncs).
			Parse(f.src)
		if err != nil {
			return nil, configError("stage %q %s template: %v", spec.Name, f.name, err)
		}
		*f.dst = tmpl
	}

	// A dry render catches references to fields that do not exist before
	// anything is sent to the capability.
	if _, err := cs.render(promptData{}); err != nil {
		return nil, configError("%v", err)
	}
	return cs, nil
}

func (cs *compiledStage) render(data promptData) (Invocation, error) {
	exec := func(t *template.Template) (string, error) {
		var buf bytes.Buffer
		if err := t.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("stage %q: render %s: %w", cs.spec.Name, t.Name(), err)
		}
		return strings.TrimSpace(buf.String()), nil
	}

	var inv Invocation
	var err error
	if inv.Role, err = exec(cs.role); err != nil {
		return Invocation{}, err
	}
	if inv.Goal, err = exec(cs.goal); err != nil {
		return Invocation{}, err
	}
	if inv.Backstory, err = exec(cs.backstory); err != nil {
		return Invocation{}, err
	}
	if inv.Task, err = exec(cs.task); err != nil {
		return Invocation{}, err
	}
	if cs.spec.CoverageAnnex && len(data.PriorityInterests) > 0 {
		inv.Task += "\n\n" + annexInstruction(data.PriorityInterests)
	}
	inv.Stage = cs.spec.Name
	inv.ExpectedOutput = cs.spec.ExpectedOutput
	inv.UseSearch = cs.spec.UseSearch
	return inv, nil
}

// validateStages rejects graphs where a stage reads output that will not
// exist yet when it runs.
func validateStages(stages []StageSpec) error {
	if len(stages) == 0 {
		return configError("pipeline has no stages")
	}

	declared := make(map[string]int, len(stages))
	for i, s := range stages {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return configError("stage %d has no name", i+1)
		}
		if name != s.Name {
			return configError("stage name %q has surrounding whitespace", s.Name)
		}
		if _, dup := declared[name]; dup {
			return configError("stage %q declared twice", name)
		}
		declared[name] = i
	}

	for i, s := range stages {
		if strings.TrimSpace(s.Task) == "" {
			return configError("stage %q has no task", s.Name)
		}
		for _, dep := range s.DependsOn {
			pos, ok := declared[dep]
			switch {
			case !ok:
				return configError("stage %q depends on unknown stage %q", s.Name, dep)
			case pos == i:
				return configError("stage %q depends on itself", s.Name)
			case pos > i:
				return configError("stage %q depends on %q which runs later", s.Name, dep)
			}
		}
	}
	return nil
}
