package attendance

import (
	"strconv"
	"strings"
	"time"
)

// DefaultGracePeriodMinutes applies when a shift has no grace period or a
// non-positive one.
const DefaultGracePeriodMinutes = 15

type Punctuality string

const (
	PunctualityEarly   Punctuality = "EARLY"
	PunctualityOnTime  Punctuality = "ON_TIME"
	PunctualityLate    Punctuality = "LATE"
	PunctualityUnknown Punctuality = "UNKNOWN"
)

// ShiftWindow is the part of a shift that punctuality depends on.
type ShiftWindow struct {
	StartTime          string // "HH:MM"
	GracePeriodMinutes *int
}

type PunctualityResult struct {
	Punctuality   Punctuality `json:"punctuality"`
	LateByMinutes int         `json:"late_by_minutes"`
	IsLate        bool        `json:"is_late"`
}

// Classify compares inTime against the shift start on the same calendar day
// in inTime's location. Late minutes are counted beyond the grace window.
func Classify(inTime *time.Time, shift *ShiftWindow) PunctualityResult {
	unknown := PunctualityResult{Punctuality: PunctualityUnknown}
	if inTime == nil || shift == nil || shift.StartTime == "" {
		return unknown
	}

	hour, minute, ok := parseClock(shift.StartTime)
	if !ok {
		return unknown
	}

	in := *inTime
	shiftStart := time.Date(in.Year(), in.Month(), in.Day(), hour, minute, 0, 0, in.Location())

	grace := DefaultGracePeriodMinutes
	if shift.GracePeriodMinutes != nil && *shift.GracePeriodMinutes > 0 {
		grace = *shift.GracePeriodMinutes
	}
	graceEnd := shiftStart.Add(time.Duration(grace) * time.Minute)

	switch {
	case !in.After(shiftStart):
		return PunctualityResult{Punctuality: PunctualityEarly}
	case !in.After(graceEnd):
		return PunctualityResult{Punctuality: PunctualityOnTime}
	default:
		minutesAfterStart := int(in.Sub(shiftStart) / time.Minute)
		return PunctualityResult{
			Punctuality:   PunctualityLate,
			LateByMinutes: minutesAfterStart - grace,
			IsLate:        true,
		}
	}
}

// parseClock accepts "HH:MM" and "HH:MM:SS".
func parseClock(s string) (hour, minute int, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
