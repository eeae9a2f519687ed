package timeutil

import (
	"testing"
	"time"
)

func TestParseIntervalDefault(t *testing.T) {
	dur, label, err := ParseInterval("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dur != time.Hour {
		t.Fatalf("expected %v, got %v", time.Hour, dur)
	}
	if label != "1h" {
		t.Fatalf("expected label 1h, got %s", label)
	}
}

func TestParseIntervalComposite(t *testing.T) {
	dur, label, err := ParseInterval("1d6h30m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 30*time.Hour + 30*time.Minute
	if dur != want {
		t.Fatalf("expected %v, got %v", want, dur)
	}
	if label != "1d6h30m" {
		t.Fatalf("unexpected label: %s", label)
	}
}

func TestParseIntervalInvalid(t *testing.T) {
	for _, in := range []string{"noop", "5y", "0m"} {
		if _, _, err := ParseInterval(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestParseIntervalWeeks(t *testing.T) {
	dur, label, err := ParseInterval("2w")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dur != 14*24*time.Hour {
		t.Fatalf("expected two weeks, got %v", dur)
	}
	if label != "14d" {
		t.Fatalf("unexpected label: %s", label)
	}
}
