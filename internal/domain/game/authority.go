package game

import (
	"strings"
	"time"
)

// PreferLive reports whether the live provider is still the authority for a
// game, given its stored calendar date (YYYY-MM-DD) and the provider's last
// known played status. The provider stays authoritative for anything not yet
// completed, and for completed games through the game day plus one extra day
// in the provider's home timezone, so late corrections such as
// completed_pending_review -> completed land inside that window. Only older
// finals fall back to the persisted record.
func PreferLive(gameDate, playedStatus string, now time.Time, loc *time.Location) bool {
	ps := strings.ToLower(strings.TrimSpace(playedStatus))
	if ps == "" {
		return true
	}
	if !strings.HasPrefix(ps, "completed") {
		return true
	}

	local := now.In(loc)
	today := local.Format("2006-01-02")
	yesterday := local.AddDate(0, 0, -1).Format("2006-01-02")
	return gameDate == today || gameDate == yesterday
}
