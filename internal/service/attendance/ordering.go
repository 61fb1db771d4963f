package attendance

import (
	"sort"
	"strings"

	"github.com/cmlabs-hris/attendance-classifier/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/punchtime"
)

// SortPunches returns a copy of punches ordered by date, then employee number.
// Unparsable dates sort first. The sort is stable, so exact duplicates keep input order.
func SortPunches(punches []attendance.RawPunch) []attendance.RawPunch {
	type keyed struct {
		punch attendance.RawPunch
		date  int64
	}

	items := make([]keyed, len(punches))
	for i, p := range punches {
		items[i] = keyed{punch: p, date: punchtime.SortKey(p.Date)}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].date != items[j].date {
			return items[i].date < items[j].date
		}
		return strings.Compare(items[i].punch.EmployeeNumber, items[j].punch.EmployeeNumber) < 0
	})

	sorted := make([]attendance.RawPunch, len(items))
	for i, it := range items {
		sorted[i] = it.punch
	}
	return sorted
}
