package leave

import "time"

type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
)

type LeaveType struct {
	ID          string
	ClientID    string
	Name        string
	DaysAllowed int
	IsPaid      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type LeaveRequest struct {
	ID          string
	EmployeeID  string
	ClientID    string
	LeaveTypeID string
	StartDate   time.Time
	EndDate     time.Time
	Reason      *string
	Status      RequestStatus
	ReviewedBy  *string
	ReviewedAt  *time.Time
	ReviewNote  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Join
	EmployeeName  string
	LeaveTypeName string
}

// Days returns the inclusive number of calendar days requested.
func (r *LeaveRequest) Days() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}
