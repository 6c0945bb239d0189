package response_models

type ItineraryResponse struct {
	Itinerary         string         `json:"itinerary"`
	Destination       string         `json:"destination"`
	DurationDays      int            `json:"duration_days"`
	Dates             []string       `json:"dates"`
	StartTime         string         `json:"start_time"`
	EndTime           string         `json:"end_time"`
	PriorityInterests []string       `json:"priority_interests"`
	CoverageGaps      []string       `json:"coverage_gaps"`
	Stages            []StageSummary `json:"stages,omitempty"`
}

// StageSummary describes one stage of the run without its text.
type StageSummary struct {
	Name       string `json:"name"`
	Attempts   int    `json:"attempts"`
	DurationMs int64  `json:"duration_ms"`
}

// TripContextResponse is the computed input of a run, returned without
// invoking any model.
type TripContextResponse struct {
	Destination       string   `json:"destination"`
	DurationDays      int      `json:"duration_days"`
	Dates             []string `json:"dates"`
	StartTime         string   `json:"start_time"`
	EndTime           string   `json:"end_time"`
	AllInterests      []string `json:"all_interests"`
	CommonInterests   []string `json:"common_interests"`
	UniqueInterests   []string `json:"unique_interests"`
	PriorityInterests []string `json:"priority_interests"`
	Summary           string   `json:"summary"`
	Stages            []string `json:"stages"`
}
