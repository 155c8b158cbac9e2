package employee

import "time"

// Employee is the profile linking a user to the branch and shift they work at.
type Employee struct {
	ID          string
	UserID      string
	ClientID    string
	BranchID    *string
	ShiftID     *string
	Designation *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Join
	Name       string
	Email      string
	Role       string
	BranchName *string
	ShiftName  *string
}
