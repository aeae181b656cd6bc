package parser

import "regexp"

// Pattern: component <name>
// "end component <name>" never matches because the line starts with "end".
var componentPattern = regexp.MustCompile(`(?i)^\s*component\s+(\w+)`)

// scanComponents is the fallback structural scan used when no
// Tree-sitter grammar is loaded.
func scanComponents(content []byte) []string {
	var names []string
	for _, line := range splitLines(string(content)) {
		if m := componentPattern.FindStringSubmatch(line); m != nil {
			names = append(names, m[1])
		}
	}
	return names
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
