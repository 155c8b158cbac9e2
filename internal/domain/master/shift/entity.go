package shift

import "time"

type Shift struct {
	ID                 string
	ClientID           string
	Name               string
	StartTime          string // "HH:MM" wall clock in the branch timezone
	EndTime            string
	GracePeriodMinutes *int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
