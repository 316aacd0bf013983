package digest

import (
	"testing"
	"time"
)

func TestParseScheduleVariants(t *testing.T) {
	t.Parallel()

	d, cron, err := parseSchedule("")
	if err != nil || d != defaultInterval || cron.schedule != nil {
		t.Fatalf("expected default interval, got %v %v %v", d, cron, err)
	}

	d, cron, err = parseSchedule("6h")
	if err != nil || d != 6*time.Hour || cron.schedule != nil {
		t.Fatalf("expected 6h interval, got %v %v %v", d, cron, err)
	}

	if _, _, err := parseSchedule("-1h"); err == nil {
		t.Fatalf("expected error for negative interval")
	}
	if _, _, err := parseSchedule("61 * * * *"); err == nil {
		t.Fatalf("expected error for out of range minute")
	}
	if _, _, err := parseSchedule("* * *"); err == nil {
		t.Fatalf("expected error for short spec")
	}
}

func TestCronNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		spec   string
		after  time.Time
		expect time.Time
	}{
		{
			name:   "daily at nine",
			spec:   "0 9 * * *",
			after:  time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
			expect: time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC),
		},
		{
			name:   "every fifteen minutes",
			spec:   "*/15 * * * *",
			after:  time.Date(2026, 5, 1, 9, 7, 30, 0, time.UTC),
			expect: time.Date(2026, 5, 1, 9, 15, 0, 0, time.UTC),
		},
		{
			// 2026-05-02 is a Saturday.
			name:   "weekdays only",
			spec:   "30 8 * * 1-5",
			after:  time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
			expect: time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC),
		},
		{
			name:   "list of hours",
			spec:   "0 9,18 * * *",
			after:  time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
			expect: time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sched, err := parseCronSpec(tt.spec)
			if err != nil {
				t.Fatalf("parseCronSpec error: %v", err)
			}
			got, err := sched.next(tt.after)
			if err != nil {
				t.Fatalf("next error: %v", err)
			}
			if !got.Equal(tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}
