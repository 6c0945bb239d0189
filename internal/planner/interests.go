package planner

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Person is one traveller in the group.
type Person struct {
	Name      string       `json:"name"`
	Interests InterestList `json:"interests"`
}

// InterestList accepts either a JSON array of strings or a single
// comma-joined string such as "food, art, nightlife".
type InterestList []string

func (l *InterestList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("interests must be a string or a list of strings: %w", err)
	}
	*l = SplitInterests(joined)
	return nil
}

// SplitInterests splits a comma-joined interest string and trims each piece.
func SplitInterests(joined string) []string {
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// InterestProfile is the group's deduplicated and prioritized interests.
type InterestProfile struct {
	AllInterests      []string
	CommonInterests   []string
	UniqueInterests   []string
	PriorityInterests []string
	Summary           string
}

// NormalizeInterest canonicalizes an interest so that "asian  food" and
// "Asian Food" compare equal.
func NormalizeInterest(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Title(language.Und).String(strings.Join(fields, " "))
}

// AggregateInterests counts interests across the group. Interests named by
// more than one person come first, most mentioned first; the rest follow in
// the order they were first seen.
func AggregateInterests(people []Person) InterestProfile {
	var order []string
	counts := make(map[string]int)

	for _, person := range people {
		for _, raw := range person.Interests {
			interest := NormalizeInterest(raw)
			if interest == "" {
				continue
			}
			if _, seen := counts[interest]; !seen {
				order = append(order, interest)
			}
			counts[interest]++
		}
	}

	byCount := make([]string, len(order))
	copy(byCount, order)
	sort.SliceStable(byCount, func(i, j int) bool {
		return counts[byCount[i]] > counts[byCount[j]]
	})

	common := make([]string, 0)
	unique := make([]string, 0)
	for _, interest := range byCount {
		if counts[interest] > 1 {
			common = append(common, interest)
		} else {
			unique = append(unique, interest)
		}
	}

	inCommon := make(map[string]bool, len(common))
	priority := make([]string, 0, len(order))
	for _, interest := range common {
		inCommon[interest] = true
		priority = append(priority, interest)
	}
	for _, interest := range unique {
		if !inCommon[interest] {
			priority = append(priority, interest)
		}
	}
	if len(priority) == 0 && len(order) > 0 {
		priority = append(priority, order...)
	}

	all := make([]string, 0, len(order))
	all = append(all, order...)

	return InterestProfile{
		AllInterests:      all,
		CommonInterests:   common,
		UniqueInterests:   unique,
		PriorityInterests: priority,
		Summary:           summarize(all, priority),
	}
}

func summarize(all, priority []string) string {
	if len(all) == 0 {
		return "Group interests: none"
	}
	return fmt.Sprintf("Group interests: %s. PRIORITY: %s",
		strings.Join(all, ", "), strings.Join(priority, ", "))
}

// PriorityList joins the priority interests for prompt text.
func (p InterestProfile) PriorityList() string {
	return strings.Join(p.PriorityInterests, ", ")
}
