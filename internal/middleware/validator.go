package middleware

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxEntryLength bounds a single journal entry, in runes.
const MaxEntryLength = 20000

var userIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,128}$`)

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}

// ValidateUserID validates user ID format
func ValidateUserID(user string) error {
	if user == "" {
		return fmt.Errorf("user ID cannot be empty")
	}
	if !userIDPattern.MatchString(user) {
		return fmt.Errorf("invalid user ID format (alphanumeric, dot, dash, underscore only, max 128 chars)")
	}
	return nil
}

// ValidateEntry checks sanitized journal text
func ValidateEntry(text string) error {
	if text == "" {
		return fmt.Errorf("text cannot be empty")
	}
	if utf8.RuneCountInString(text) > MaxEntryLength {
		return fmt.Errorf("text exceeds %d characters", MaxEntryLength)
	}
	return nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidateDays validates the window parameter
func ValidateDays(days int) int {
	if days <= 0 {
		return 30 // default
	}
	if days > 365 {
		return 365 // max 1 year
	}
	return days
}
