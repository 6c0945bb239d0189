package pipeline

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"tripcrew/internal/planner"
)

var annexPattern = regexp.MustCompile(`(?is)<coverage>\s*(.*?)\s*</coverage>`)

func annexInstruction(priority []string) string {
	example := make(map[string]string, len(priority))
	for _, interest := range priority {
		example[interest] = "<specific venue name>"
	}
	var sample strings.Builder
	enc := json.NewEncoder(&sample)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(example)

	return fmt.Sprintf(`After your answer, append exactly one line of the form
<coverage>%s</coverage>
naming the venue you chose for every one of these interests: %s.`,
		strings.TrimSpace(sample.String()), strings.Join(priority, ", "))
}

func fallbackInstruction(missing []string, destination string) string {
	return fmt.Sprintf(`FALLBACK: your previous answer (last context item) had no concrete recommendation for: %s.
Run additional targeted searches with different query formulations (for example add "recreation center", "indoor", "open play", "best rated", "near %s") and supply at least one strong named candidate for each.
Return the complete revised answer covering ALL priority interests, including the <coverage> line.`,
		strings.Join(missing, ", "), destination)
}

// ParseCoverageAnnex reads the last <coverage> block in text. Keys are
// normalized like interests; entries with a blank venue are dropped.
func ParseCoverageAnnex(text string) (map[string]string, bool) {
	matches := annexPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, false
	}

	var raw map[string]string
	if err := json.Unmarshal([]byte(matches[len(matches)-1][1]), &raw); err != nil {
		return nil, false
	}

	out := make(map[string]string, len(raw))
	for interest, venue := range raw {
		key := planner.NormalizeInterest(interest)
		venue = strings.TrimSpace(venue)
		if key == "" || venue == "" {
			continue
		}
		out[key] = venue
	}
	return out, true
}

// MissingInterests returns the interests, in priority order, that text never
// names as whole words. Matching ignores case and whitespace runs.
func MissingInterests(text string, priority []string) []string {
	var missing []string
	for _, interest := range priority {
		if !mentions(text, interest) {
			missing = append(missing, interest)
		}
	}
	return missing
}

func mentions(text, interest string) bool {
	words := strings.Fields(interest)
	if len(words) == 0 {
		return false
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	pattern := `(?i)(?:^|[^\pL\pN])` + strings.Join(words, `\s+`) + `(?:[^\pL\pN]|$)`
	return regexp.MustCompile(pattern).MatchString(text)
}

// stageCoverage prefers the structured annex and falls back to scanning the
// prose when the stage did not produce one.
func stageCoverage(text string, priority []string) (map[string]string, []string) {
	annex, ok := ParseCoverageAnnex(text)
	if !ok {
		return nil, MissingInterests(planner.StripCoverageAnnex(text), priority)
	}

	var missing []string
	for _, interest := range priority {
		if _, covered := annex[interest]; !covered {
			missing = append(missing, interest)
		}
	}
	return annex, missing
}
