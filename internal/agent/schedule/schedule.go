// Package schedule computes next-run timestamps for agent schedules.
package schedule

import (
	"time"

	v1 "github.com/arcbrain/arcbrain/pkg/api/v1"
)

// Fixed intervals per schedule kind. Monthly is a 30-day approximation,
// not calendar arithmetic.
const (
	hourlyInterval  = time.Hour
	dailyInterval   = 24 * time.Hour
	weeklyInterval  = 7 * 24 * time.Hour
	monthlyInterval = 30 * 24 * time.Hour
)

// NextRun returns the next run timestamp for the given schedule, relative to now.
// Custom schedules are not parsed as cron expressions; they fall back to the
// daily interval, as does any unrecognized schedule kind.
func NextRun(kind v1.Schedule, customExpr string, now time.Time) time.Time {
	switch kind {
	case v1.ScheduleHourly:
		return now.Add(hourlyInterval)
	case v1.ScheduleDaily:
		return now.Add(dailyInterval)
	case v1.ScheduleWeekly:
		return now.Add(weeklyInterval)
	case v1.ScheduleMonthly:
		return now.Add(monthlyInterval)
	case v1.ScheduleCustom:
		// TODO: honor customExpr with a real cron parser; daily fallback for now
		return now.Add(dailyInterval)
	default:
		return now.Add(dailyInterval)
	}
}
