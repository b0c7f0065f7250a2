package ai

import "strings"

// ExtractJSON strips markdown code fences and surrounding prose from a model
// response, returning the JSON payload. Models occasionally wrap the answer
// in ```json fences despite instructions not to.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		return strings.TrimSpace(s)
	}

	// fall back to the outermost brace pair
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1]
	}

	return s
}
