package service

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// normalizeID trims surrounding whitespace from waypoint ids and matriculas.
func normalizeID(id string) string {
	return strings.TrimSpace(id)
}

// normalizeUsername lowercases and trims an admin username.
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// sanitizeString collapses whitespace and trims the result.
func sanitizeString(value string) string {
	value = whitespaceRegex.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}
