package shift

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type ShiftResponse struct {
	ID                 string `json:"id"`
	ClientID           string `json:"client_id"`
	Name               string `json:"name"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	GracePeriodMinutes *int   `json:"grace_period_minutes"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

func NewShiftResponse(s Shift) ShiftResponse {
	return ShiftResponse{
		ID:                 s.ID,
		ClientID:           s.ClientID,
		Name:               s.Name,
		StartTime:          s.StartTime,
		EndTime:            s.EndTime,
		GracePeriodMinutes: s.GracePeriodMinutes,
		CreatedAt:          s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          s.UpdatedAt.Format(time.RFC3339),
	}
}

type CreateShiftRequest struct {
	ClientID           string `json:"client_id"`
	Name               string `json:"name" validate:"required,max=100"`
	StartTime          string `json:"start_time" validate:"required,clock"`
	EndTime            string `json:"end_time" validate:"required,clock"`
	GracePeriodMinutes *int   `json:"grace_period_minutes,omitempty" validate:"omitempty,gte=0,max=720"`
}

func (r *CreateShiftRequest) Validate() error {
	return validator.Struct(r)
}

type UpdateShiftRequest struct {
	ID                 string  `json:"-"`
	Name               *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	StartTime          *string `json:"start_time,omitempty" validate:"omitempty,clock"`
	EndTime            *string `json:"end_time,omitempty" validate:"omitempty,clock"`
	GracePeriodMinutes *int    `json:"grace_period_minutes,omitempty" validate:"omitempty,gte=0,max=720"`
}

func (r *UpdateShiftRequest) Validate() error {
	return validator.Struct(r)
}

// Apply copies the set fields of r onto s.
func (r *UpdateShiftRequest) Apply(s *Shift) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.StartTime != nil {
		s.StartTime = *r.StartTime
	}
	if r.EndTime != nil {
		s.EndTime = *r.EndTime
	}
	if r.GracePeriodMinutes != nil {
		s.GracePeriodMinutes = r.GracePeriodMinutes
	}
}
