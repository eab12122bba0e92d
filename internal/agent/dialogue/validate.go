package dialogue

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validator checks one raw answer. It returns ok=false with a visitor-facing
// message when the answer is rejected.
type Validator func(raw string) (ok bool, message string)

var (
	namePattern  = regexp.MustCompile(`^[\p{L}\s.]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneStrip   = regexp.MustCompile(`[\s\-()+]`)
)

func ValidateFullName(raw string) (bool, string) {
	name := strings.TrimSpace(raw)
	if utf8.RuneCountInString(name) < 2 {
		return false, "Please provide your full name (at least 2 letters)."
	}
	if !namePattern.MatchString(name) {
		return false, "Name should only contain letters, spaces, and dots."
	}
	return true, ""
}

func ValidateEmail(raw string) (bool, string) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return false, "Please provide a valid email address."
	}
	if !emailPattern.MatchString(email) {
		return false, "Please enter a valid email address (e.g., name@example.com)."
	}
	return true, ""
}

func ValidatePhoneNumber(raw string) (bool, string) {
	if strings.TrimSpace(raw) == "" {
		return false, "Please provide your phone number."
	}
	digits := phoneStrip.ReplaceAllString(raw, "")
	if !allDigits(digits) {
		return false, "Phone number should only contain digits."
	}
	if len(digits) < 10 {
		return false, "Phone number must be at least 10 digits."
	}
	return true, ""
}

func ValidateAddress(raw string) (bool, string) {
	if utf8.RuneCountInString(strings.TrimSpace(raw)) < 5 {
		return false, "Please provide a complete address (at least 5 characters)."
	}
	return true, ""
}

func ValidateProjectRequirement(raw string) (bool, string) {
	if utf8.RuneCountInString(strings.TrimSpace(raw)) < 3 {
		return false, "Please tell us what you want to build (e.g., website, app, logo, software)."
	}
	return true, ""
}

func ValidateDeadline(raw string) (bool, string) {
	if utf8.RuneCountInString(strings.TrimSpace(raw)) < 2 {
		return false, "Please provide a deadline (e.g., 5 days, next month, 20th March)."
	}
	return true, ""
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
