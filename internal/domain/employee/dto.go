package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type EmployeeResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	ClientID    string  `json:"client_id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	Designation *string `json:"designation,omitempty"`
	BranchID    *string `json:"branch_id"`
	BranchName  *string `json:"branch_name,omitempty"`
	ShiftID     *string `json:"shift_id"`
	ShiftName   *string `json:"shift_name,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		ClientID:    e.ClientID,
		Name:        e.Name,
		Email:       e.Email,
		Role:        e.Role,
		Designation: e.Designation,
		BranchID:    e.BranchID,
		BranchName:  e.BranchName,
		ShiftID:     e.ShiftID,
		ShiftName:   e.ShiftName,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
}

type ListEmployeeResponse struct {
	Employees  []EmployeeResponse `json:"employees"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
}

// CreateEmployeeRequest creates the login user and the employee profile together.
type CreateEmployeeRequest struct {
	ClientID    string  `json:"client_id"` // Only honoured for super admins
	Name        string  `json:"name" validate:"required,max=255"`
	Email       string  `json:"email" validate:"required,email,max=254"`
	Password    string  `json:"password" validate:"required,min=8,max=72"`
	Role        string  `json:"role" validate:"omitempty,oneof=EMPLOYEE MANAGER CLIENT_ADMIN"`
	Designation *string `json:"designation,omitempty" validate:"omitempty,max=100"`
	BranchID    *string `json:"branch_id,omitempty"`
	ShiftID     *string `json:"shift_id,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Role == "" {
		r.Role = string(user.RoleEmployee)
	}
	return validator.Struct(r)
}

// UpdateEmployeeRequest changes profile fields. An empty branch_id or
// shift_id unassigns it.
type UpdateEmployeeRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Designation *string `json:"designation,omitempty" validate:"omitempty,max=100"`
	BranchID    *string `json:"branch_id,omitempty"`
	ShiftID     *string `json:"shift_id,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	return validator.Struct(r)
}

type EmployeeFilter struct {
	ClientID string
	BranchID *string
	ShiftID  *string
	Search   *string
	Page     int
	Limit    int
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	return errs.Err()
}

// Offset returns the row offset for the current page.
func (f *EmployeeFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
