package game

import (
	"regexp"
	"strings"
	"time"
)

var (
	tzSuffix     = regexp.MustCompile(`(?i)\s*(ET|EST|EDT)\s*$`)
	whitespace   = regexp.MustCompile(`\s+`)
	clockAMPM    = regexp.MustCompile(`(?i)^\d{1,2}:\d{2}(AM|PM)$`)
	clockHHMM    = regexp.MustCompile(`^\d{2}:\d{2}$`)
	clockHHMMSS  = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
)

// ScheduledLabel builds the pregame tip-off label from the stored local
// string ("07:00PM ET") with the plain TIME column ("19:00:00") as fallback.
// Empty when neither parses.
func ScheduledLabel(localStr, timeStr string) string {
	if label := labelFromLocalStr(localStr); label != "" {
		return label
	}
	return labelFromTime(timeStr)
}

func labelFromLocalStr(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = tzSuffix.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "")
	if !clockAMPM.MatchString(s) {
		return ""
	}
	t, err := time.Parse("3:04pm", strings.ToLower(s))
	if err != nil {
		return ""
	}
	return t.Format("3:04 PM")
}

func labelFromTime(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if clockHHMM.MatchString(s) {
		s += ":00"
	}
	if !clockHHMMSS.MatchString(s) {
		return ""
	}
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return ""
	}
	return t.Format("3:04 PM")
}
