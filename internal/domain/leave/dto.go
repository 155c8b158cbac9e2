package leave

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

type LeaveTypeResponse struct {
	ID          string `json:"id"`
	ClientID    string `json:"client_id"`
	Name        string `json:"name"`
	DaysAllowed int    `json:"days_allowed"`
	IsPaid      bool   `json:"is_paid"`
}

func NewLeaveTypeResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:          t.ID,
		ClientID:    t.ClientID,
		Name:        t.Name,
		DaysAllowed: t.DaysAllowed,
		IsPaid:      t.IsPaid,
	}
}

type CreateLeaveTypeRequest struct {
	ClientID    string `json:"client_id"`
	Name        string `json:"name" validate:"required,max=100"`
	DaysAllowed int    `json:"days_allowed" validate:"gte=0,max=366"`
	IsPaid      bool   `json:"is_paid"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	return validator.Struct(r)
}

type UpdateLeaveTypeRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	DaysAllowed *int    `json:"days_allowed,omitempty" validate:"omitempty,gte=0,max=366"`
	IsPaid      *bool   `json:"is_paid,omitempty"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	return validator.Struct(r)
}

type LeaveRequestResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name,omitempty"`
	LeaveTypeID   string  `json:"leave_type_id"`
	LeaveTypeName string  `json:"leave_type_name,omitempty"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	Days          int     `json:"days"`
	Reason        *string `json:"reason,omitempty"`
	Status        string  `json:"status"`
	ReviewedBy    *string `json:"reviewed_by,omitempty"`
	ReviewedAt    *string `json:"reviewed_at,omitempty"`
	ReviewNote    *string `json:"review_note,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		LeaveTypeID:   r.LeaveTypeID,
		LeaveTypeName: r.LeaveTypeName,
		StartDate:     r.StartDate.Format(dateLayout),
		EndDate:       r.EndDate.Format(dateLayout),
		Days:          r.Days(),
		Reason:        r.Reason,
		Status:        string(r.Status),
		ReviewedBy:    r.ReviewedBy,
		ReviewNote:    r.ReviewNote,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if r.ReviewedAt != nil {
		at := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &at
	}
	return resp
}

type CreateLeaveRequestRequest struct {
	LeaveTypeID string  `json:"leave_type_id" validate:"required"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason      *string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	start, _ := time.Parse(dateLayout, r.StartDate)
	end, _ := time.Parse(dateLayout, r.EndDate)
	if end.Before(start) {
		return validator.ValidationErrors{{Field: "end_date", Message: "end_date must be on or after start_date"}}
	}
	return nil
}

// Dates returns the parsed start and end dates. Call after Validate.
func (r *CreateLeaveRequestRequest) Dates() (time.Time, time.Time) {
	start, _ := time.Parse(dateLayout, r.StartDate)
	end, _ := time.Parse(dateLayout, r.EndDate)
	return start, end
}

type ReviewLeaveRequest struct {
	ID   string  `json:"-"`
	Note *string `json:"note,omitempty" validate:"omitempty,max=1000"`
}

func (r *ReviewLeaveRequest) Validate() error {
	return validator.Struct(r)
}

type LeaveRequestFilter struct {
	ClientID   string
	EmployeeID *string
	Status     *string
	Limit      int
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		errs.Add("limit", "limit must not exceed 200")
	}
	if f.Status != nil {
		valid := []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}
		if !validator.IsInSlice(*f.Status, valid) {
			errs.Add("status", "status must be one of: PENDING, APPROVED, REJECTED")
		}
	}

	return errs.Err()
}
