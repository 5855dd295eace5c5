package game

import (
	"fmt"
	"regexp"
	"strings"
)

// Status is the resolved phase of a game plus its display label. At most one
// of the flags is set; all false means pregame. Precedence when upstream
// fields conflict is Final > Intermission > Live > Pregame.
type Status struct {
	Label        string
	Live         bool
	Intermission bool
	Final        bool
}

// NHLStatusInput carries the raw fields the commercial feed exposes.
// Pointer fields distinguish "absent" from zero.
type NHLStatusInput struct {
	PlayedStatus        string
	CurrentIntermission *int
	CurrentPeriod       *int
	SecondsRemaining    *int
}

// NCAAStatusInput carries the raw fields the NCAA service exposes. Status is
// a short code ("F", "I", "L"); Period is free text ("2ND", "1ST INT",
// "FINAL/OT"). ScheduledLabel is the pregame fallback ("7:00 PM").
type NCAAStatusInput struct {
	Status         string
	Period         string
	Minutes        *int
	Seconds        *int
	ScheduledLabel string
}

// DeriveNHLStatus maps the commercial feed's raw fields onto Status.
// Any played status starting with "completed" is final, regardless of the
// intermission/period fields in the same payload.
func DeriveNHLStatus(in NHLStatusInput) Status {
	ps := strings.ToLower(strings.TrimSpace(in.PlayedStatus))

	if strings.HasPrefix(ps, "completed") {
		label := "Final"
		if ps == "completed_pending_review" {
			label = "Final Pending Review"
		}
		return Status{Label: label, Final: true}
	}

	if in.CurrentIntermission != nil && *in.CurrentIntermission > 0 {
		return Status{Label: nhlIntermissionLabel(*in.CurrentIntermission), Intermission: true}
	}

	if in.CurrentPeriod != nil && *in.CurrentPeriod > 0 {
		label := NHLPeriodLabel(*in.CurrentPeriod)
		if in.SecondsRemaining != nil {
			sec := *in.SecondsRemaining
			label = fmt.Sprintf("%s – %d:%02d", label, sec/60, sec%60)
		}
		return Status{Label: label, Live: true}
	}

	return Status{Label: "Game Day"}
}

// NHLPeriodLabel renders a numeric period as its scoreboard label.
func NHLPeriodLabel(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	case 4:
		return "OT"
	case 5:
		return "SO"
	}
	return fmt.Sprintf("P%d", n)
}

func nhlIntermissionLabel(n int) string {
	switch n {
	case 1:
		return "1st INT"
	case 2:
		return "2nd INT"
	case 3:
		return "3rd INT"
	}
	return "OT INT"
}

var leadingIntermissionDigit = regexp.MustCompile(`\b([123])\b`)

// DeriveNCAAStatus maps the NCAA service's raw fields onto Status.
// Intermission detection is a substring match on the free-text period field;
// the provider has no numeric intermission flag. Known upstream strings are
// "1ST INT", "OT INT", "INTERMISSION"; an unanticipated string containing
// "INT" would false-positive here, same as the feed's other consumers.
func DeriveNCAAStatus(in NCAAStatusInput) Status {
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	period := strings.ToUpper(strings.TrimSpace(in.Period))

	if status == "F" || period == "FINAL" || period == "FINAL/OT" || period == "FINAL/SO" {
		return Status{Label: "Final", Final: true}
	}

	if period != "" && strings.Contains(period, "INT") {
		return Status{Label: ncaaIntermissionLabel(period), Intermission: true}
	}

	if status == "I" || status == "L" {
		return Status{Label: ncaaLiveLabel(in), Live: true}
	}

	label := strings.TrimSpace(in.ScheduledLabel)
	if label == "" {
		label = "Scheduled"
	}
	return Status{Label: label}
}

func ncaaIntermissionLabel(periodUpper string) string {
	if m := leadingIntermissionDigit.FindStringSubmatch(periodUpper); m != nil {
		switch m[1] {
		case "1":
			return "1st INT"
		case "2":
			return "2nd INT"
		case "3":
			return "3rd INT"
		}
	}
	if periodUpper == "OT INT" {
		return "OT INT"
	}
	return "INT"
}

func ncaaLiveLabel(in NCAAStatusInput) string {
	p := NCAAPeriodLabel(in.Period)
	clock := ClockLabel(in.Minutes, in.Seconds)

	switch {
	case p != "" && clock != "":
		return p + " – " + clock
	case p != "":
		return p
	case clock != "":
		return clock
	}
	return "Live"
}

var ncaaOrdinalPeriod = regexp.MustCompile(`^([123])(ST|ND|RD)$`)

// NCAAPeriodLabel normalizes the free-text period ("2ND" -> "2nd").
func NCAAPeriodLabel(raw string) string {
	p := strings.ToUpper(strings.TrimSpace(raw))
	if p == "" {
		return ""
	}
	if p == "OT" || p == "SO" {
		return p
	}
	if p == "FINAL" {
		return "Final"
	}
	if m := ncaaOrdinalPeriod.FindStringSubmatch(p); m != nil {
		return m[1] + strings.ToLower(m[2])
	}
	return strings.TrimSpace(raw)
}

// ClockLabel renders "m:ss" from split clock fields, empty when either side
// is missing.
func ClockLabel(minutes, seconds *int) string {
	if minutes == nil || seconds == nil {
		return ""
	}
	m := *minutes
	s := *seconds
	if m < 0 {
		m = 0
	}
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
