package branch

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geofence"
)

// DefaultRadiusMeters applies when a branch is created without a radius.
const DefaultRadiusMeters = 100

type Branch struct {
	ID           string
	ClientID     string
	Name         string
	Address      *string
	Latitude     *float64
	Longitude    *float64
	RadiusMeters int
	Timezone     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Location returns the geofence center, or nil when the branch has none.
// A branch without a center does not restrict where employees punch.
func (b *Branch) Location() *geofence.Point {
	if b.Latitude == nil || b.Longitude == nil {
		return nil
	}
	return &geofence.Point{Latitude: *b.Latitude, Longitude: *b.Longitude}
}
