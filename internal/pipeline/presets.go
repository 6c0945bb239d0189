package pipeline

import "strings"

const (
	StageDiscovery  = "discovery"
	StageSelection  = "selection"
	StageScheduling = "scheduling"
	StageItinerary  = "itinerary"

	PresetThreeStage  = "three-stage"
	PresetSingleStage = "single-stage"

	// DefaultMaxRPM applies to the three-stage preset and to YAML pipelines.
	DefaultMaxRPM     = 10
	singleStageMaxRPM = 2
)

// PresetMaxRPM is the model-call ceiling a preset was tuned for. The single
// agent issues long tool loops, so it runs slower than the three-stage crew.
func PresetMaxRPM(name string) int {
	if strings.ToLower(strings.TrimSpace(name)) == PresetSingleStage {
		return singleStageMaxRPM
	}
	return DefaultMaxRPM
}

// Preset returns a built-in stage sequence by name.
func Preset(name string) ([]StageSpec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PresetThreeStage:
		return ThreeStagePipeline(), nil
	case PresetSingleStage:
		return SingleStagePipeline(), nil
	default:
		return nil, configError("unknown pipeline preset %q (use %q or %q)", name, PresetThreeStage, PresetSingleStage)
	}
}

// ThreeStagePipeline is discovery, then selection, then scheduling. Selection
// reads discovery; scheduling reads both.
func ThreeStagePipeline() []StageSpec {
	return []StageSpec{
		{
			Name: StageDiscovery,
			Role: "Real-Time Event and Activity Researcher",
			Goal: `Find real-time events, activities, and venues in {{.Destination}} for the travel dates that match these PRIORITY interests: {{.Priority}}.
For sports (e.g., Pickleball), prioritize indoor locations, open play schedules, rated or recommended courts, and facilities with reservation policies.
For cuisine interests (e.g., Asian Food), search for top-rated restaurants and sub-cuisines and gather ratings, price range, and opening hours.`,
			Backstory: `You are an expert at finding current events, up-to-date local listings, and venue-specific logistics (hours, cost, open-play times).
You search for indoor sports facilities, community rec centers, and top-rated restaurants during the trip dates.`,
			Task: `1. Search for events and activities happening in {{.Destination}} on {{join .Dates ", "}} ({{.StartDate}} to {{.EndDate}}).
2. CRITICAL: Search for venues/facilities for these PRIORITY interests: {{.Priority}}.
   Common interests (shared by several people): {{orNone .CommonInterests}}
   Individual interests: {{orNone .UniqueInterests}}
   - INDOOR/COURT SPORTS such as pickleball: search for "best indoor <sport> courts in {{.Destination}}", "<sport> open play {{.Destination}}" and "recreation center <sport> courts {{.Destination}}".
     For each venue capture: indoor/outdoor, court surface, reservation rules, open-play times, cost, and whether lights are available.
   - CUISINES (e.g., Asian Food): search for "best <cuisine> restaurants in {{.Destination}}" and its sub-cuisines.
     For each restaurant capture: name, address, cuisine subtype, rating, price level, hours, and whether reservations are recommended.
   - EVERYTHING ELSE: capture name, address, hours on the travel dates, cost, and ticket information.
3. Prioritize free recreational activities first, but include paid options if they are highly rated or fit a {{.Budget}} budget.
4. Return a list of candidate venues/events with links/sources for verification.`,
			ExpectedOutput: "A list of events AND specific venues (courts, parks, restaurants) that match the priority interests.",
			UseSearch:      true,
		},
		{
			Name: StageSelection,
			Role: "Local Travel Expert",
			Goal: "Provide the best recommendation for {{.Destination}}",
			Backstory: `You are a seasoned travel expert with deep knowledge of {{.Destination}}.
You know the best spots, hidden gems, restaurants, and how to optimize time to see multiple attractions.`,
			Task: `Using the events/venues found, select the BEST specific locations for the group.

MANDATORY REQUIREMENT: You MUST provide a specific venue recommendation for EVERY item in this priority list: {{.Priority}}.

For each recommendation, include:
- Name & Address
- Operating Hours (verify they are open between {{.StartDate}} and {{.EndDate}})
- Cost/Entry rules
- Activities that complement the events found and match group interests
- Practical logistics (locations, timing, costs)
- Current weather consideration for those dates

FALLBACK: If the researcher did NOT return any valid option for a required interest, you MUST perform an additional targeted search with different query formulations (include "recreation center", "indoor", "open play", "best rated") and supply at least one strong candidate.`,
			ExpectedOutput: "A list of recommended specific places covering ALL priority interests.",
			DependsOn:      []string{StageDiscovery},
			UseSearch:      true,
			CoverageAnnex:  true,
		},
		{
			Name: StageScheduling,
			Role: "Itinerary Coordinator",
			Goal: "Create a balanced, day by day feasible itinerary with specific times",
			Backstory: `You are a master planner who creates realistic, well-paced itineraries with specific times.
You consider travel time, opening times, rush hour, event schedules, and group energy levels to build the perfect schedule.`,
			Task: `Create a detailed itinerary for {{.DurationDays}} day(s): {{join .Dates ", "}}.

STRICT RULES:
1. Time Window: Schedule activities ONLY between {{.StartTime}} and {{.EndTime}}.
2. MANDATORY INCLUSION: You MUST schedule an activity for EACH of these priority interests: {{.Priority}}.
   (e.g., if "Pickleball" is listed, you MUST schedule "Pickleball at [Venue Name]").
3. Do not schedule outdoor sports outside daylight unless the venue record confirms lighting.
4. NO GENERIC PLACEHOLDERS: never write "Dinner at a local restaurant" or "Lunch at a nearby cafe". If no specific venue was provided for a required cuisine or activity, perform a targeted search and name one (include source links).
5. Prioritize free recreational activities first.

Format as Markdown:
# Itinerary for {{.Destination}}
## DAY 1 - [Date]
**[Start Time] - [End Time]: Activity Name**
- Description...`,
			ExpectedOutput: "A complete day-by-day itinerary in Markdown format that includes ALL priority interests.",
			DependsOn:      []string{StageDiscovery, StageSelection},
		},
	}
}

// SingleStagePipeline folds research, selection and scheduling into one
// stage for tight rate limits.
func SingleStagePipeline() []StageSpec {
	return []StageSpec{
		{
			Name: StageItinerary,
			Role: "Unified Travel Intelligence Agent",
			Goal: `You are responsible for ALL research, venue selection, and itinerary creation for the trip to {{.Destination}} from {{.StartDate}} to {{.EndDate}}.
You must produce a complete, accurate, realistic day-by-day itinerary including ALL priority interests: {{.Priority}}.`,
			Backstory: "You combine the skills of a real-time event researcher, a local travel expert, and a world-class itinerary planner.",
			Task: `Complete event research, venue selection, and itinerary planning in a single workflow.

REQUIRED WORKFLOW (internal, do not output as bullets):
1. Search for events and activities happening in {{.Destination}} between {{.StartDate}} and {{.EndDate}}.
2. Identify specific venues for ALL priority interests: {{.Priority}}.
   - Court sports: indoor courts, open play, cost, rating, reservation rules, lighting.
   - Cuisine: best restaurants with address, hours, price tier, rating, reservations.
   - Include free recreational activities and noteworthy events.
3. Choose the BEST venue for each interest, valid for the date range. If a search finds nothing for an interest, search again with different phrasing before moving on.
4. Build a feasible itinerary for {{.DurationDays}} day(s):
   - Activities ONLY between {{.StartTime}} and {{.EndTime}}.
   - At least one activity for every priority interest.
   - No outdoor sports after dark unless lighting is confirmed.
   - Only specific venue names, no placeholders.
5. Produce the final output in Markdown, one "## DAY n - YYYY-MM-DD" section per day.`,
			ExpectedOutput: "A complete day-by-day itinerary in Markdown format that includes ALL priority interests.",
			UseSearch:      true,
		},
	}
}
