package client

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type ClientResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Timezone  *string `json:"timezone,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func NewClientResponse(c Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Timezone:  c.Timezone,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

type CreateClientRequest struct {
	Name     string  `json:"name"`
	Timezone *string `json:"timezone,omitempty"`
}

func (r *CreateClientRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}
	if r.Timezone != nil && !validator.IsValidTimezone(*r.Timezone) {
		errs.Add("timezone", "timezone must be a valid IANA timezone")
	}

	return errs.Err()
}

type UpdateClientRequest struct {
	ID       string  `json:"-"`
	Name     *string `json:"name,omitempty"`
	Timezone *string `json:"timezone,omitempty"`
}

func (r *UpdateClientRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("name", "name cannot be empty")
		} else if len(*r.Name) > 255 {
			errs.Add("name", "name must not exceed 255 characters")
		}
	}
	if r.Timezone != nil && *r.Timezone != "" && !validator.IsValidTimezone(*r.Timezone) {
		errs.Add("timezone", "timezone must be a valid IANA timezone")
	}

	return errs.Err()
}
