package timeutil

import (
	"testing"
	"time"
)

func TestForBuildsSundayWeeks(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	// Wednesday.
	now := time.Date(2024, time.January, 3, 15, 4, 0, 0, loc)
	c := For(now)

	if got := FromMillis(c.TodayStart, loc); !got.Equal(time.Date(2024, 1, 3, 0, 0, 0, 0, loc)) {
		t.Fatalf("today start: got %v", got)
	}
	if got := FromMillis(c.TomorrowStart, loc); !got.Equal(time.Date(2024, 1, 4, 0, 0, 0, 0, loc)) {
		t.Fatalf("tomorrow start: got %v", got)
	}
	if got := FromMillis(c.WeekStart, loc); !got.Equal(time.Date(2023, 12, 31, 0, 0, 0, 0, loc)) {
		t.Fatalf("week start: got %v", got)
	}
	if got := FromMillis(c.NextWeekStart, loc); !got.Equal(time.Date(2024, 1, 7, 0, 0, 0, 0, loc)) {
		t.Fatalf("next week start: got %v", got)
	}
	if c.Now != now.UnixMilli() {
		t.Fatalf("now marker: got %d", c.Now)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if c.TodayKey() != "2024-01-03" {
		t.Fatalf("today key: got %s", c.TodayKey())
	}
}

func TestForOnSunday(t *testing.T) {
	loc := time.UTC
	c := For(time.Date(2024, time.January, 7, 8, 0, 0, 0, loc))
	if c.WeekStart != c.TodayStart {
		t.Fatalf("expected week to start today on a Sunday")
	}
}

func TestYesterdayCrossesMonth(t *testing.T) {
	loc := time.UTC
	c := For(time.Date(2024, time.March, 1, 9, 0, 0, 0, loc))
	y := c.Yesterday()
	if y.TodayKey() != "2024-02-29" {
		t.Fatalf("expected leap day, got %s", y.TodayKey())
	}
	if y.TomorrowStart != c.TodayStart {
		t.Fatalf("yesterday's tomorrow should be today")
	}
}

func TestAddDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// DST began 2024-03-10; that day is 23 hours long.
	start := time.Date(2024, time.March, 10, 0, 0, 0, 0, loc)
	next := AddDays(Millis(start), 1, loc)
	if got := FromMillis(next, loc); got.Day() != 11 || got.Hour() != 0 {
		t.Fatalf("expected March 11 midnight, got %v", got)
	}
	if hours := time.Duration(next-Millis(start)) * time.Millisecond; hours != 23*time.Hour {
		t.Fatalf("expected a 23h day, got %v", hours)
	}
	c := For(time.Date(2024, time.March, 10, 12, 0, 0, 0, loc))
	if err := c.Validate(); err != nil {
		t.Fatalf("validate on DST day: %v", err)
	}
}

func TestParseDay(t *testing.T) {
	loc := time.UTC
	c := For(time.Date(2024, time.January, 3, 10, 0, 0, 0, loc))

	tests := map[string]string{
		"today":      "2024-01-03",
		"tomorrow":   "2024-01-04",
		"yesterday":  "2024-01-02",
		"+3d":        "2024-01-06",
		"-1w":        "2023-12-27",
		"2024-02-29": "2024-02-29",
		"friday":     "2024-01-05",
		"wed":        "2024-01-10",
		"Monday":     "2024-01-08",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			ms, err := ParseDay(in, c)
			if err != nil {
				t.Fatalf("parse %q: %v", in, err)
			}
			if got := DateKey(ms, loc); got != want {
				t.Fatalf("expected %s, got %s", want, got)
			}
		})
	}

	if _, err := ParseDay("someday", c); err == nil {
		t.Fatal("expected error for unknown expression")
	}
}

func TestParseMoment(t *testing.T) {
	loc := time.UTC
	c := For(time.Date(2024, time.January, 3, 10, 0, 0, 0, loc))
	ms, err := ParseMoment("tomorrow 09:30", c)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2024, time.January, 4, 9, 30, 0, 0, loc)
	if got := FromMillis(ms, loc); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
