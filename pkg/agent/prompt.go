package agent

import (
	"fmt"
	"strings"

	"tripcrew/internal/pipeline"
)

const searchToolName = "web_search"

const searchToolDescription = "Search the live web. Use it for venues, opening hours, prices, event listings and anything date-specific."

func systemPrompt(inv pipeline.Invocation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s.\n", inv.Role)
	if inv.Goal != "" {
		fmt.Fprintf(&b, "Your personal goal is: %s\n", inv.Goal)
	}
	if inv.Backstory != "" {
		fmt.Fprintf(&b, "%s\n", inv.Backstory)
	}
	if inv.UseSearch {
		fmt.Fprintf(&b, "You have a %s tool. Prefer facts you verified with it over memory.\n", searchToolName)
	}
	return strings.TrimSpace(b.String())
}

func taskPrompt(inv pipeline.Invocation) string {
	var b strings.Builder
	b.WriteString("Current Task:\n")
	b.WriteString(inv.Task)
	if inv.ExpectedOutput != "" {
		fmt.Fprintf(&b, "\n\nThis is the expected criteria for your final answer: %s", inv.ExpectedOutput)
	}
	if len(inv.Context) > 0 {
		b.WriteString("\n\nThis is the context you're working with:")
		for i, c := range inv.Context {
			fmt.Fprintf(&b, "\n\n--- context %d ---\n%s", i+1, c)
		}
	}
	return b.String()
}

func searchPayload(results []SearchResult, err error) map[string]any {
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	items := make([]any, 0, len(results))
	for _, r := range results {
		items = append(items, map[string]any{"title": r.Title, "link": r.Link, "snippet": r.Snippet})
	}
	return map[string]any{"results": items}
}

var searchExhausted = map[string]any{"error": "search limit reached; answer with the information you already have"}
