package extractor

import (
	"strings"
	"unicode"
)

// SanitizeText normalizes raw extracted text: null bytes and control
// characters (except newline and tab) are removed, runs of intra-line
// whitespace collapse to a single space, blank lines are dropped.
func SanitizeText(text string) string {
	if text == "" {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if r == 0 {
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\t' {
			sb.WriteRune(r)
		}
	}

	lines := strings.Split(sb.String(), "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
