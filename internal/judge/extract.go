package judge

import (
	"regexp"
	"strings"
)

var reFencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// FirstJSONObject returns the first balanced {...} region in s, or "" if
// none exists. Brace matching skips braces inside JSON string literals.
func FirstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// FencedOrFirstJSON returns the JSON object inside the first fenced code
// block, falling back to the first balanced {...} region anywhere in s.
// Summarization responses usually fence their output; judging responses
// usually do not.
func FencedOrFirstJSON(s string) string {
	if m := reFencedBlock.FindStringSubmatch(s); m != nil {
		if obj := FirstJSONObject(m[1]); obj != "" {
			return obj
		}
	}
	return FirstJSONObject(s)
}
