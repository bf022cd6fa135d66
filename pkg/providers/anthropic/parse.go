package anthropic

import "strings"

// extractJSON strips markdown fences and surrounding prose from a model
// reply, returning the outermost JSON object. Returns the input
// unchanged when no object is found, letting the decoder report the
// failure.
func extractJSON(reply string) string {
	s := strings.TrimSpace(reply)
	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
		s = strings.TrimPrefix(s, "json")
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return reply
	}
	return s[start : end+1]
}
