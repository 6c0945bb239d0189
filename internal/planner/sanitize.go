package planner

import (
	"regexp"
	"strings"
)

var (
	// An opening fence with a language tag, e.g. ```markdown or ```JSON.
	// Well-known tags match anywhere, other tags only when they end the line
	// so "```Day 1" loses the fence but keeps its text.
	taggedFence = regexp.MustCompile("(?im)```(?:(?:markdown|md|json|text|txt|html)\\b|[a-z0-9_+-]+[ \\t]*\\r?$)")
	bareFence   = "```"

	coverageAnnex = regexp.MustCompile(`(?is)<coverage>.*?</coverage>`)
)

// Sanitize strips Markdown code fences the model wraps its answer in and any
// coverage annex, leaving the rest of the text untouched.
func Sanitize(raw string) string {
	cleaned := raw
	// Removing one marker can splice backticks into a new one, so repeat
	// until nothing changes. Every pass shrinks the text.
	for {
		next := sanitizeOnce(cleaned)
		if next == cleaned {
			return next
		}
		cleaned = next
	}
}

func sanitizeOnce(text string) string {
	text = StripCoverageAnnex(text)
	text = taggedFence.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, bareFence, "")
	return strings.TrimSpace(text)
}

// StripCoverageAnnex removes <coverage>...</coverage> blocks.
func StripCoverageAnnex(text string) string {
	return coverageAnnex.ReplaceAllString(text, "")
}
