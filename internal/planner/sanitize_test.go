package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	cases := map[string]struct {
		in, want string
	}{
		"markdown fence": {
			in:   "```markdown\n# Itinerary for Reston\n## DAY 1\n```",
			want: "# Itinerary for Reston\n## DAY 1",
		},
		"upper case tag": {
			in:   "```MARKDOWN\n# Plan\n```\n",
			want: "# Plan",
		},
		"bare fences": {
			in:   "  ```\n**09:00 - 10:00: Coffee**\n```  ",
			want: "**09:00 - 10:00: Coffee**",
		},
		"text after fence kept": {
			in:   "```Day 1 starts early",
			want: "Day 1 starts early",
		},
		"crlf unknown tag": {
			in:   "```python\r\nprint(1)\r\n```",
			want: "print(1)",
		},
		"crlf yaml tag": {
			in:   "```yaml\r\nDay 1\r\n```",
			want: "Day 1",
		},
		"crlf markdown tag": {
			in:   "```markdown\r\n# Plan\r\n```\r\n",
			want: "# Plan",
		},
		"coverage annex removed": {
			in:   "# Plan\n<coverage>{\"Food\":\"Bob's\"}</coverage>\n",
			want: "# Plan",
		},
		"no markers": {
			in:   "Nothing to do `inline` here",
			want: "Nothing to do `inline` here",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sanitize(tc.in))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"```markdown\n# A\n```",
		"````x``md",
		"``<coverage>{}</coverage>`tail",
		"``````",
		"plain",
		"",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), in)
		assert.NotContains(t, once, "```")
	}
}
