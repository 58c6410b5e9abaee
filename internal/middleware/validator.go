package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

var (
	companyNamePattern = regexp.MustCompile(`^[\p{L}\p{N} .,&'()-]{1,255}$`)
	analysisIDPattern  = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)
)

// ValidateCompanyName checks a company path or body parameter.
func ValidateCompanyName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("company name cannot be empty")
	}
	if !companyNamePattern.MatchString(name) {
		return fmt.Errorf("invalid company name")
	}
	return nil
}

// ValidateAnalysisID checks the analysis id path parameter.
func ValidateAnalysisID(id string) error {
	if id == "" {
		return fmt.Errorf("analysis ID cannot be empty")
	}
	if !analysisIDPattern.MatchString(id) {
		return fmt.Errorf("invalid analysis ID format")
	}
	return nil
}

// SanitizeString removes null bytes and control characters from
// user-supplied strings.
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

// ValidateLimit clamps pagination sizes.
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// ValidateDays clamps history windows to a year.
func ValidateDays(days int) int {
	if days <= 0 {
		return 90
	}
	if days > 365 {
		return 365
	}
	return days
}
