package attendance

import (
	"strings"

	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/punchtime"
)

// WaiverMonthKey scopes waiver occasions to one employee and one month, e.g. "E1|JAN-2024".
func WaiverMonthKey(employeeNumber, date string) string {
	return strings.ToUpper(strings.TrimSpace(employeeNumber)) + "|" + punchtime.MonthYear(date)
}

// WaiverCounter counts waiver occasions per WaiverMonthKey within one classification pass.
// Counts only ever grow; nothing is given back when a flagged record is later overridden.
type WaiverCounter struct {
	counts map[string]int
}

// NewWaiverCounter starts a pass. seed may carry counts from an earlier run; it is copied.
func NewWaiverCounter(seed map[string]int) *WaiverCounter {
	counts := make(map[string]int, len(seed))
	for k, v := range seed {
		if v > 0 {
			counts[k] = v
		}
	}
	return &WaiverCounter{counts: counts}
}

// Claim consumes one occasion for key. It reports the 1-based occasion number and whether
// that occasion was still within limit. The count is incremented either way.
func (w *WaiverCounter) Claim(key string, limit int) (occasion int, eligible bool) {
	used := w.counts[key]
	w.counts[key] = used + 1
	return used + 1, used < limit
}

func (w *WaiverCounter) Used(key string) int {
	return w.counts[key]
}

// Snapshot returns a copy of the current counts.
func (w *WaiverCounter) Snapshot() map[string]int {
	out := make(map[string]int, len(w.counts))
	for k, v := range w.counts {
		out[k] = v
	}
	return out
}
