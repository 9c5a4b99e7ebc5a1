package shared

import (
	"testing"
	"time"
)

func TestDayKey(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"utc midnight", time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), "2026-08-24"},
		{"utc evening", time.Date(2026, 8, 24, 23, 59, 59, 0, time.UTC), "2026-08-24"},
		{"offset zone normalizes to utc", time.Date(2026, 8, 25, 1, 0, 0, 0, time.FixedZone("CEST", 2*3600)), "2026-08-24"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayKey(tt.t); got != tt.want {
				t.Errorf("DayKey(%v) = %q, want %q", tt.t, got, tt.want)
			}
		})
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, 8, 24, 15, 42, 7, 123, time.UTC)
	want := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	if got := StartOfDay(in); !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
}

func TestWeekRange(t *testing.T) {
	selected := time.Date(2026, 8, 24, 15, 0, 0, 0, time.UTC)
	start, end := WeekRange(selected)

	if !start.Equal(time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if got := end.Sub(start); got != 7*24*time.Hour {
		t.Errorf("window length = %v, want 168h", got)
	}

	// The final day is inside the window, the eighth day is not.
	lastEvening := start.AddDate(0, 0, 6).Add(23 * time.Hour)
	if !InWindow(lastEvening, start, end) {
		t.Error("evening of day 7 should be inside the window")
	}
	if InWindow(end, start, end) {
		t.Error("end boundary is exclusive")
	}
	if !InWindow(start, start, end) {
		t.Error("start boundary is inclusive")
	}
}

func TestRounding(t *testing.T) {
	t.Run("RoundMinutes rounds half away from zero", func(t *testing.T) {
		tests := []struct {
			seconds int64
			want    int
		}{
			{0, 0},
			{29, 0},
			{30, 1},
			{90, 2},
			{3600, 60},
		}
		for _, tt := range tests {
			if got := RoundMinutes(tt.seconds); got != tt.want {
				t.Errorf("RoundMinutes(%d) = %d, want %d", tt.seconds, got, tt.want)
			}
		}
	})

	t.Run("RoundToNearest5 snaps to the grid", func(t *testing.T) {
		tests := []struct {
			minutes float64
			want    int
		}{
			{0, 0},
			{2, 0},
			{2.5, 5},
			{3, 5},
			{7, 5},
			{7.5, 10},
			{62, 60},
			{63, 65},
		}
		for _, tt := range tests {
			if got := RoundToNearest5(tt.minutes); got != tt.want {
				t.Errorf("RoundToNearest5(%v) = %d, want %d", tt.minutes, got, tt.want)
			}
		}
	})

	t.Run("RoundSecondsTo5Minutes composes both steps", func(t *testing.T) {
		tests := []struct {
			seconds int64
			want    int
		}{
			{3600, 60},  // exactly 1h
			{3900, 65},  // 1h5m
			{3750, 65},  // 62.5m rounds up
			{3720, 60},  // 62m rounds down
			{150, 5},    // 2.5m rounds up to the first tick
			{149, 0},    // just below the half tick
			{86400, 1440},
		}
		for _, tt := range tests {
			if got := RoundSecondsTo5Minutes(tt.seconds); got != tt.want {
				t.Errorf("RoundSecondsTo5Minutes(%d) = %d, want %d", tt.seconds, got, tt.want)
			}
		}
	})
}

func TestFormatDay(t *testing.T) {
	in := time.Date(2026, 8, 24, 15, 0, 0, 0, time.UTC)
	if got, want := FormatDay(in), "Mon, 24 Aug 2026"; got != want {
		t.Errorf("FormatDay = %q, want %q", got, want)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0h0m"},
		{3900, "1h5m"},
		{59, "0h0m"},
		{7260, "2h1m"},
		{-10, "0h0m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
