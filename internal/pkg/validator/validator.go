package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// IsValidMonthKey checks the "MMM-YYYY" month format, e.g. "JAN-2024".
func IsValidMonthKey(month string) (time.Time, bool) {
	t, err := time.Parse("Jan-2006", strings.TrimSpace(month))
	return t, err == nil
}

var clockTimeRegex = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// IsValidClockTime checks "HH:MM" on a 24h clock.
func IsValidClockTime(s string) bool {
	return clockTimeRegex.MatchString(strings.TrimSpace(s))
}

// IsValidWeekday checks 0=Sunday..6=Saturday.
func IsValidWeekday(d int) bool {
	return d >= 0 && d <= 6
}
