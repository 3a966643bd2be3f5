package ai

import (
	"regexp"
	"strings"
)

var (
	parenNoteRe   = regexp.MustCompile(`(?i)\(\s*note:[^)]*\)`)
	bracketNoteRe = regexp.MustCompile(`(?i)\[\s*note\b[^\]]*\]`)
	lineNoteRe    = regexp.MustCompile(`(?i)^\s*(\*\*)?note:`)
)

// SanitizeAIText strips machine-translation disclaimers and surrounding
// whitespace from a model answer.
func SanitizeAIText(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = parenNoteRe.ReplaceAllString(s, "")
	s = bracketNoteRe.ReplaceAllString(s, "")

	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if lineNoteRe.MatchString(line) {
			continue
		}
		line = strings.Join(strings.Fields(line), " ")
		if line == "" && (len(kept) == 0 || kept[len(kept)-1] == "") {
			continue
		}
		kept = append(kept, line)
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}
