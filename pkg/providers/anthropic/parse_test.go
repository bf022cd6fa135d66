package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "Bare Object",
			reply: `{"decision": "end"}`,
			want:  `{"decision": "end"}`,
		},
		{
			name:  "Fenced",
			reply: "```json\n{\"decision\": \"end\"}\n```",
			want:  `{"decision": "end"}`,
		},
		{
			name:  "Fenced Without Language",
			reply: "```\n{\"decision\": \"continue\"}\n```",
			want:  `{"decision": "continue"}`,
		},
		{
			name:  "Surrounding Prose",
			reply: "Here is the routing decision:\n{\"decision\": \"debate\"}\nLet me know if you need more.",
			want:  `{"decision": "debate"}`,
		},
		{
			name:  "Nested Braces",
			reply: `{"outer": {"inner": 1}}`,
			want:  `{"outer": {"inner": 1}}`,
		},
		{
			name:  "No Object",
			reply: "I cannot answer that.",
			want:  "I cannot answer that.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractJSON(tc.reply))
		})
	}
}
