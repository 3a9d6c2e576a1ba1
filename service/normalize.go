package service

import (
	"strings"

	"restock/models"
)

// Normalize canonicalizes a text fragment for keyword matching. Everything
// from the first colon onward is dropped (the colon separates a label from its
// value in payload text, e.g. "Apple Seeds: 3x"), the rest is lowercased and
// stripped of every rune outside [a-z0-9]. Idempotent.
func Normalize(s string) string {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SearchableLines extracts the normalized lines keyword matching runs against:
// the embed description split on newlines, then each field's name and value
// (name first, fields in original order), each split on newlines independently.
func SearchableLines(embed *models.Embed) []string {
	var lines []string

	if embed.Description != "" {
		for _, line := range strings.Split(embed.Description, "\n") {
			lines = append(lines, Normalize(line))
		}
	}

	for _, field := range embed.Fields {
		for _, line := range strings.Split(field.Name, "\n") {
			lines = append(lines, Normalize(line))
		}
		for _, line := range strings.Split(field.Value, "\n") {
			lines = append(lines, Normalize(line))
		}
	}

	return lines
}
