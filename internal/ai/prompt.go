package ai

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxPromptChars bounds the article text sent to the model.
const maxPromptChars = 6000

// BuildPrompt renders the instruction for mode around text.
func BuildPrompt(mode Mode, text, language string, sentences int) (string, error) {
	text = prepareText(text)

	switch mode {
	case ModeTranslate:
		return fmt.Sprintf(`Translate this news headline into %s.
Use a professional, journalistic register.
Do not translate brand or organization names.
Reply with the translation only, without comments.

Headline: %s`, language, text), nil
	case ModeSummarize:
		return fmt.Sprintf(`Summarize this article in %s in at most %d sentences.
Make it attention-grabbing but factual.
Reply with the summary only, without introductory phrases like "This article is about".

Article: %s`, language, sentences, text), nil
	default:
		return "", fmt.Errorf("unsupported mode %q", mode)
	}
}

// prepareText collapses whitespace and caps the size on a rune boundary,
// preferring to cut at the end of a sentence.
func prepareText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= maxPromptChars {
		return text
	}

	trimmed := string([]rune(text)[:maxPromptChars])
	if idx := strings.LastIndex(trimmed, ". "); idx > maxPromptChars/5 {
		trimmed = trimmed[:idx+1]
	}
	return trimmed + " [TRUNCATED]"
}
