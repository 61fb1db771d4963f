package punchtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is used to unwrap durations that cross midnight.
const MinutesPerDay = 1440

// DateLayout is the only accepted date format, e.g. "15-JAN-2024".
const DateLayout = "2-Jan-2006"

// Punch is a normalized time-clock punch. Sentinel inputs ("", "NA", "00:00")
// become a Punch with Valid == false.
type Punch struct {
	Minutes int
	Valid   bool
}

// Parse normalizes a raw "HH:MM" punch.
func Parse(raw string) Punch {
	if !IsPunched(raw) {
		return Punch{}
	}
	return Punch{Minutes: ToMinutes(raw), Valid: true}
}

// IsPunched reports whether raw holds an actual punch.
func IsPunched(raw string) bool {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "00:00", "NA":
		return false
	}
	return true
}

// ToMinutes converts "HH:MM" to minutes past midnight. Malformed components count as 0.
func ToMinutes(raw string) int {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "NA", "00:00")
	if s == "" || s == "00:00" {
		return 0
	}

	parts := strings.Split(s, ":")
	hours := atoiOrZero(parts[0])
	minutes := 0
	if len(parts) > 1 {
		minutes = atoiOrZero(parts[1])
	}
	return hours*60 + minutes
}

// FromMinutes renders minutes as zero-padded "HH:MM". Negative input clamps to "00:00".
func FromMinutes(m int) string {
	if m < 0 {
		m = 0
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// FromDuration renders a duration as "HH:MM", rounding to the nearest minute.
func FromDuration(d time.Duration) string {
	return FromMinutes(int(math.Round(d.Minutes())))
}

// DiffMinutes returns end-start, unwrapping across midnight when end < start.
func DiffMinutes(start, end int) int {
	if end < start {
		return (end + MinutesPerDay) - start
	}
	return end - start
}

// ParseDate parses "DD-MMM-YYYY" case-insensitively.
func ParseDate(raw string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SortKey returns the unix seconds of the date, or 0 when it does not parse.
func SortKey(raw string) int64 {
	t, ok := ParseDate(raw)
	if !ok {
		return 0
	}
	return t.Unix()
}

// NormalizeDate uppercases and trims a date string for use as a lookup key.
func NormalizeDate(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// FormatDate renders t in the canonical upper-case form, e.g. "05-FEB-2024".
func FormatDate(t time.Time) string {
	return strings.ToUpper(t.Format("02-Jan-2006"))
}

// MonthYear returns the "MMM-YYYY" part of a "DD-MMM-YYYY" date.
func MonthYear(raw string) string {
	s := NormalizeDate(raw)
	if i := strings.Index(s, "-"); i >= 0 {
		return s[i+1:]
	}
	return s
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
