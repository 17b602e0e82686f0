// Package moderation implements the sensitive-word filter applied to posts and comments.
package moderation

import (
	"regexp"
	"strings"

	"github.com/anonto42/preference/backend/internal/models"
)

// Mask replaces a word that has no replacement configured.
const Mask = "***"

var separators = regexp.MustCompile(`[，, \n]+`)

// Contains returns the first word found in text, compared case-insensitively.
func Contains(text string, words []models.SensitiveWord) (string, bool) {
	lower := strings.ToLower(text)
	for _, w := range words {
		if w.Word == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(w.Word)) {
			return w.Word, true
		}
	}
	return "", false
}

// Censor replaces every occurrence of each word, in list order.
func Censor(text string, words []models.SensitiveWord) string {
	for _, w := range words {
		if w.Word == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(w.Word))
		if err != nil {
			continue
		}
		repl := w.Replacement
		if repl == "" {
			repl = Mask
		}
		text = re.ReplaceAllLiteralString(text, repl)
	}
	return text
}

// ParseWordList splits an admin-entered list on commas (ASCII or full width),
// spaces and newlines. Duplicates keep their first position.
func ParseWordList(input string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, part := range separators.Split(input, -1) {
		w := strings.TrimSpace(part)
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
