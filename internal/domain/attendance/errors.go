package attendance

import (
	"errors"
	"fmt"
	"math"
)

// Attendance domain errors
var (
	ErrMissingLocation          = errors.New("location is required, enable GPS and try again")
	ErrOutsideGeofence          = errors.New("you are outside the office geofence")
	ErrAlreadyPunchedIn         = errors.New("you have already punched in")
	ErrNotPunchedIn             = errors.New("you have not punched in")
	ErrEmployeeOrBranchNotFound = errors.New("employee or branch not found")
	ErrPersistence              = errors.New("failed to save attendance")
	ErrRecordNotFound           = errors.New("attendance record not found")
)

// OutsideGeofenceError is returned when an office punch is too far from the
// branch. errors.Is(err, ErrOutsideGeofence) matches it.
type OutsideGeofenceError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *OutsideGeofenceError) Error() string {
	return fmt.Sprintf("you are %.0fm from the office, the allowed radius is %.0fm",
		math.Round(e.DistanceMeters), e.RadiusMeters)
}

func (e *OutsideGeofenceError) Is(target error) bool {
	return target == ErrOutsideGeofence
}

// persistenceError wraps a store failure so that it matches ErrPersistence
// while keeping the cause.
func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// WrapPersistence marks err as a store failure unless it is already a
// domain error.
func WrapPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrAlreadyPunchedIn),
		errors.Is(err, ErrNotPunchedIn),
		errors.Is(err, ErrPersistence),
		errors.Is(err, ErrRecordNotFound):
		return err
	}
	return persistenceError(op, err)
}
