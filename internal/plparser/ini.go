package plparser

import (
	"strings"
)

// splitLines splits on LF, CRLF and lone CR.
func splitLines(data string) []string {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	data = strings.ReplaceAll(data, "\r", "\n")
	return strings.Split(data, "\n")
}

// keyValues reads "key=value" lines. Keys are lower-cased and the first
// occurrence of a key wins. With a non-empty group only the lines of that
// "[group]" section are read; an empty group reads every section.
func keyValues(lines []string, group string) map[string]string {
	out := make(map[string]string)
	inGroup := group == ""
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		if line[0] == '[' {
			if group != "" {
				name := strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
				inGroup = strings.EqualFold(strings.TrimSpace(name), group)
			}
			continue
		}
		if !inGroup {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if _, seen := out[key]; !seen {
			out[key] = strings.TrimSpace(value)
		}
	}
	return out
}
