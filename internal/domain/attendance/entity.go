package attendance

import (
	"time"
)

// DateLayout is the calendar-day format used for work dates.
const DateLayout = "2006-01-02"

type LocationType string

const (
	LocationOffice LocationType = "OFFICE"
	LocationRemote LocationType = "REMOTE"
)

func (l LocationType) Valid() bool {
	return l == LocationOffice || l == LocationRemote
}

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusLate    Status = "LATE"
	StatusHalfDay Status = "HALF_DAY"
	StatusOnLeave Status = "ON_LEAVE"
)

// Record is one IN/OUT cycle. It is created open on punch-in and closed
// exactly once on punch-out.
type Record struct {
	ID           string
	EmployeeID   string
	ClientID     string
	Date         time.Time // calendar day, midnight in the day-boundary location
	InTime       *time.Time
	OutTime      *time.Time
	LocationType LocationType
	Latitude     float64
	Longitude    float64
	OutLatitude  *float64
	OutLongitude *float64
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOpen reports whether the record still waits for a punch-out.
func (r *Record) IsOpen() bool {
	return r.InTime != nil && r.OutTime == nil
}

// DayKey returns the work date of r as YYYY-MM-DD.
func (r *Record) DayKey() string {
	return r.Date.Format(DateLayout)
}

// WorkDay truncates now to midnight in loc.
func WorkDay(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
