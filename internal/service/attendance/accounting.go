package attendance

import (
	"github.com/cmlabs-hris/attendance-classifier/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/punchtime"
)

const (
	breakMinutes         = 60  // fixed unpaid break, not configurable per shift
	effectiveBaseMinutes = 480 // 8h
	grossBaseMinutes     = 540 // 9h
	zeroDuration         = "00:00"
)

// applyTimeAccounting fills the derived duration fields. Without both punches only
// TotalHours and EffectiveHours are set, to "00:00". shift may be nil, in which case the
// shift-relative fields (LateBy, EarlyBy, OverTime) stay at "00:00".
func applyTimeAccounting(rec *attendance.ClassifiedRecord, in, out punchtime.Punch, shift *attendance.ShiftDefinition) {
	if !in.Valid || !out.Valid {
		rec.TotalHours = zeroDuration
		rec.EffectiveHours = zeroDuration
		return
	}

	gross := punchtime.DiffMinutes(in.Minutes, out.Minutes)
	effective := max(0, gross-breakMinutes)

	rec.LateBy = zeroDuration
	rec.EarlyBy = zeroDuration
	rec.OverTime = zeroDuration

	if shift != nil {
		start := punchtime.ToMinutes(shift.StartTime)
		end := punchtime.ToMinutes(shift.EndTime)

		if in.Minutes > start {
			rec.LateBy = punchtime.FromMinutes(in.Minutes - start)
		}
		if out.Minutes < end {
			rec.EarlyBy = punchtime.FromMinutes(end - out.Minutes)
		}
		if out.Minutes > end {
			rec.OverTime = punchtime.FromMinutes(out.Minutes - end)
		}
	}

	rec.TotalHours = punchtime.FromMinutes(gross)
	rec.EffectiveHours = punchtime.FromMinutes(effective)
	rec.ShortfallEffective = punchtime.FromMinutes(max(0, effectiveBaseMinutes-effective))
	rec.ShortfallGross = punchtime.FromMinutes(max(0, grossBaseMinutes-gross))
}
