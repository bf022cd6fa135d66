package runtime_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refinehq/refine/internal/runtime"
)

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text passes through", "refine a meal planner", "refine a meal planner"},
		{"newlines and tabs survive", "line one\n\tline two\r\n", "line one\n\tline two\r\n"},
		{"ansi escapes stripped", "red \x1b[31malert\x1b[0m", "red [31malert[0m"},
		{"nul and bel stripped", "a\x00b\x07c", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runtime.SanitizeQuery(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeQuery_TooLarge(t *testing.T) {
	_, err := runtime.SanitizeQuery(strings.Repeat("x", runtime.MaxQuerySize+1))
	assert.ErrorIs(t, err, runtime.ErrQueryTooLarge)
}

func TestSanitizeQuery_AtLimit(t *testing.T) {
	input := strings.Repeat("x", runtime.MaxQuerySize)
	got, err := runtime.SanitizeQuery(input)
	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestSanitizeQuery_InvalidUTF8(t *testing.T) {
	_, err := runtime.SanitizeQuery("bad \xff\xfe bytes")
	assert.ErrorIs(t, err, runtime.ErrInvalidUTF8)
}
