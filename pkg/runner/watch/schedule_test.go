package watch

import (
	"testing"
	"time"
)

func TestDailySpec(t *testing.T) {
	tests := map[string]struct {
		hour, minute int
		want         string
		wantErr      bool
	}{
		"midnight": {0, 0, "0 0 0 * * *", false},
		"evening":  {21, 30, "0 30 21 * * *", false},
		"bad hour": {24, 0, "", true},
		"bad min":  {1, 60, "", true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := dailySpec(tc.hour, tc.minute)
			if (err != nil) != tc.wantErr {
				t.Fatalf("dailySpec() error = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("dailySpec() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIntervalSpec(t *testing.T) {
	if got, err := intervalSpec(time.Hour); err != nil || got != "@every 3600s" {
		t.Fatalf("intervalSpec(1h) = %q, %v", got, err)
	}
	if got, _ := intervalSpec(10 * time.Millisecond); got != "@every 1s" {
		t.Fatalf("intervalSpec(10ms) = %q", got)
	}
	if _, err := intervalSpec(0); err == nil {
		t.Fatal("expected error for zero interval")
	}
}

func TestSchedulerRegisters(t *testing.T) {
	s := newScheduler(time.UTC)
	if _, err := s.daily(0, 0, func() {}); err != nil {
		t.Fatalf("daily: %v", err)
	}
	if _, err := s.every(time.Minute, func() {}); err != nil {
		t.Fatalf("every: %v", err)
	}
	if n := len(s.cron.Entries()); n != 2 {
		t.Fatalf("entries = %d, want 2", n)
	}
	s.start()
	s.stop()
}
