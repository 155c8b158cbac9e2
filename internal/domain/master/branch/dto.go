package branch

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// BranchResponse represents the response structure for a branch.
type BranchResponse struct {
	ID           string   `json:"id"`
	ClientID     string   `json:"client_id"`
	Name         string   `json:"name"`
	Address      *string  `json:"address,omitempty"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	RadiusMeters int      `json:"radius_meters"`
	Timezone     *string  `json:"timezone,omitempty"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

func NewBranchResponse(b Branch) BranchResponse {
	return BranchResponse{
		ID:           b.ID,
		ClientID:     b.ClientID,
		Name:         b.Name,
		Address:      b.Address,
		Latitude:     b.Latitude,
		Longitude:    b.Longitude,
		RadiusMeters: b.RadiusMeters,
		Timezone:     b.Timezone,
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    b.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateBranchRequest represents the request structure for creating a branch.
type CreateBranchRequest struct {
	ClientID     string   `json:"client_id"` // Only honoured for super admins
	Name         string   `json:"name" validate:"required,max=100"`
	Address      *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	Latitude     *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	RadiusMeters *int     `json:"radius_meters,omitempty" validate:"omitempty,gt=0"`
	Timezone     *string  `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

func (r *CreateBranchRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	return validateCoordinatePair(r.Latitude, r.Longitude)
}

// UpdateBranchRequest represents the request structure for updating a branch.
type UpdateBranchRequest struct {
	ID            string   `json:"-"`
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Address       *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	Latitude      *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	RadiusMeters  *int     `json:"radius_meters,omitempty" validate:"omitempty,gt=0"`
	Timezone      *string  `json:"timezone,omitempty" validate:"omitempty,timezone"`
	ClearLocation bool     `json:"clear_location,omitempty"`
}

func (r *UpdateBranchRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.ClearLocation && (r.Latitude != nil || r.Longitude != nil) {
		return validator.ValidationErrors{{
			Field:   "clear_location",
			Message: "clear_location cannot be combined with latitude or longitude",
		}}
	}
	return validateCoordinatePair(r.Latitude, r.Longitude)
}

// Apply copies the set fields of r onto b.
func (r *UpdateBranchRequest) Apply(b *Branch) {
	if r.Name != nil {
		b.Name = *r.Name
	}
	if r.Address != nil {
		b.Address = r.Address
	}
	if r.ClearLocation {
		b.Latitude, b.Longitude = nil, nil
	}
	if r.Latitude != nil && r.Longitude != nil {
		b.Latitude, b.Longitude = r.Latitude, r.Longitude
	}
	if r.RadiusMeters != nil {
		b.RadiusMeters = *r.RadiusMeters
	}
	if r.Timezone != nil {
		if *r.Timezone == "" {
			b.Timezone = nil
		} else {
			b.Timezone = r.Timezone
		}
	}
}

func validateCoordinatePair(lat, lng *float64) error {
	var errs validator.ValidationErrors
	if lat != nil && lng == nil {
		errs.Add("longitude", "longitude is required when latitude is set")
	}
	if lng != nil && lat == nil {
		errs.Add("latitude", "latitude is required when longitude is set")
	}
	return errs.Err()
}
