package domain

import (
	"testing"
	"time"
)

func TestFormatLogDate(t *testing.T) {
	cases := []struct {
		date time.Time
		want string
	}{
		{time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC), "Mon May 01 2023"},
		{time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), "Sun Jan 01 2023"},
		{time.Date(1999, time.December, 31, 23, 59, 0, 0, time.UTC), "Fri Dec 31 1999"},
	}

	for _, tc := range cases {
		if got := FormatLogDate(tc.date); got != tc.want {
			t.Fatalf("FormatLogDate(%v) = %q, want %q", tc.date, got, tc.want)
		}
	}
}

func TestDateOnlyStripsClock(t *testing.T) {
	in := time.Date(2023, time.May, 1, 17, 42, 9, 12345, time.UTC)
	got := DateOnly(in)
	want := time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("DateOnly(%v) = %v, want %v", in, got, want)
	}
}
