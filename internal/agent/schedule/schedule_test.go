package schedule

import (
	"testing"
	"time"

	v1 "github.com/arcbrain/arcbrain/pkg/api/v1"
)

func TestNextRun_FixedIntervals(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		kind     v1.Schedule
		expected time.Time
	}{
		{"hourly", v1.ScheduleHourly, now.Add(time.Hour)},
		{"daily", v1.ScheduleDaily, now.Add(24 * time.Hour)},
		{"weekly", v1.ScheduleWeekly, now.Add(7 * 24 * time.Hour)},
		{"monthly", v1.ScheduleMonthly, now.Add(30 * 24 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextRun(tt.kind, "", now)
			if !got.Equal(tt.expected) {
				t.Errorf("NextRun(%s) = %v, want %v", tt.kind, got, tt.expected)
			}
		})
	}
}

func TestNextRun_CustomFallsBackToDaily(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	// The cron expression is not honored; custom schedules use the daily interval
	got := NextRun(v1.ScheduleCustom, "0 0 * * *", now)
	want := now.Add(24 * time.Hour)
	if !got.Equal(want) {
		t.Errorf("NextRun(custom) = %v, want %v", got, want)
	}
}

func TestNextRun_UnknownKindFallsBackToDaily(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	got := NextRun(v1.Schedule("bogus-kind"), "", now)
	want := NextRun(v1.ScheduleDaily, "", now)
	if !got.Equal(want) {
		t.Errorf("NextRun(bogus-kind) = %v, want daily %v", got, want)
	}
}

func TestNextRun_Deterministic(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	first := NextRun(v1.ScheduleHourly, "", now)
	second := NextRun(v1.ScheduleHourly, "", now)
	if !first.Equal(second) {
		t.Errorf("NextRun should be deterministic: %v != %v", first, second)
	}
}
