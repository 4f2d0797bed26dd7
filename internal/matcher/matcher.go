// Package matcher assigns OCR-extracted text to a client by normalized
// substring comparison.
package matcher

import (
	"strings"
	"unicode"

	"github.com/thedeck/mailroom-backend/internal/models"
)

// Normalize lowercases a string and strips all whitespace. Both client
// names and OCR text are normalized the same way before comparison, so
// "Acme Corp", "acmecorp" and "  ACME   CORP " match identically.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Match returns the ID of the first client in roster order whose normalized
// name is a substring of the normalized text, or nil when nothing matches.
// Tie-breaking is positional: the roster order decides, not any similarity
// score. Empty text and an empty roster never match.
func Match(text string, roster []models.Client) *uint {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	for _, client := range roster {
		name := Normalize(client.Name)
		if name == "" {
			continue
		}
		if strings.Contains(normalized, name) {
			id := client.ID
			return &id
		}
	}
	return nil
}
