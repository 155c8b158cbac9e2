package attendance

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkDay(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)
	// 20:00 UTC on the 10th is already the 11th at UTC+7.
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

	day := WorkDay(now, loc)
	assert.Equal(t, "2025-03-11", day.Format(DateLayout))
	assert.Equal(t, 0, day.Hour())
	assert.Equal(t, loc, day.Location())

	assert.Equal(t, "2025-03-10", WorkDay(now, time.UTC).Format(DateLayout))
}

func TestRecord_IsOpen(t *testing.T) {
	now := time.Now()
	assert.False(t, (&Record{}).IsOpen())
	assert.True(t, (&Record{InTime: &now}).IsOpen())
	assert.False(t, (&Record{InTime: &now, OutTime: &now}).IsOpen())
}

func TestOutsideGeofenceError(t *testing.T) {
	var err error = &OutsideGeofenceError{DistanceMeters: 10007.49, RadiusMeters: 500}

	assert.True(t, errors.Is(err, ErrOutsideGeofence))
	assert.Equal(t, "you are 10007m from the office, the allowed radius is 500m", err.Error())

	var target *OutsideGeofenceError
	assert.True(t, errors.As(fmt.Errorf("punch in: %w", err), &target))
	assert.Equal(t, 500.0, target.RadiusMeters)
}

func TestWrapPersistence(t *testing.T) {
	assert.NoError(t, WrapPersistence("op", nil))
	assert.Equal(t, ErrAlreadyPunchedIn, WrapPersistence("op", ErrAlreadyPunchedIn))

	err := WrapPersistence("create record", errors.New("connection reset"))
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestPunchRequest_Validate(t *testing.T) {
	lat, lng := 23.4144, 88.4853
	req := PunchRequest{Latitude: &lat, Longitude: &lng, Action: ActionIn}
	assert.NoError(t, req.Validate())
	assert.Equal(t, LocationOffice, req.LocationType)

	bad := PunchRequest{Action: "SIDEWAYS", LocationType: "MOON"}
	assert.Error(t, bad.Validate())

	badLat := 95.0
	outOfRange := PunchRequest{Latitude: &badLat, Longitude: &lng, Action: ActionOut}
	assert.Error(t, outOfRange.Validate())
}

func TestPunchRequest_Point(t *testing.T) {
	lat, lng := 0.0, 0.0
	assert.Nil(t, (&PunchRequest{Latitude: &lat}).Point())
	assert.Equal(t, 0.0, (&PunchRequest{Latitude: &lat, Longitude: &lng}).Point().Latitude)
}

func TestReportFilter_PageLimit(t *testing.T) {
	assert.Equal(t, DefaultReportLimit, ReportFilter{}.PageLimit())
	assert.Equal(t, 25, ReportFilter{Limit: 25}.PageLimit())

	f := ReportFilter{}
	require.NoError(t, f.Validate())
	assert.Equal(t, f.PageLimit(), f.Limit)
}
