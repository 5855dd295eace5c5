package game

import (
	"testing"
	"time"
)

func TestPreferLive(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// 2026-01-15 10:00 ET
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, loc)

	tests := []struct {
		name         string
		gameDate     string
		playedStatus string
		want         bool
	}{
		{"unknown status is live", "2026-01-01", "", true},
		{"unplayed is live", "2026-01-15", "UNPLAYED", true},
		{"live in progress", "2026-01-15", "LIVE", true},
		{"completed today stays live", "2026-01-15", "COMPLETED", true},
		{"completed yesterday stays live", "2026-01-14", "COMPLETED", true},
		{"pending review yesterday stays live", "2026-01-14", "COMPLETED_PENDING_REVIEW", true},
		{"completed two days ago falls back", "2026-01-13", "COMPLETED", false},
		{"old final falls back", "2025-12-01", "completed", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := PreferLive(tc.gameDate, tc.playedStatus, now, loc); got != tc.want {
				t.Fatalf("PreferLive(%q, %q) = %v, want %v", tc.gameDate, tc.playedStatus, got, tc.want)
			}
		})
	}
}

func TestPreferLive_TimezoneBoundary(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// 01:30 UTC on the 16th is still the evening of the 15th in New York, so
	// a final from the 14th is still inside the grace window.
	now := time.Date(2026, 1, 16, 1, 30, 0, 0, time.UTC)
	if !PreferLive("2026-01-14", "COMPLETED", now, loc) {
		t.Fatal("expected provider to stay authoritative across the UTC date boundary")
	}
}
