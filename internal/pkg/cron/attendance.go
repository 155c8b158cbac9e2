package cron

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
)

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
}

func NewAttendanceJobs(attendanceRepo attendance.AttendanceRepository) *AttendanceJobs {
	return &AttendanceJobs{attendanceRepo: attendanceRepo}
}

// RefreshOpenRecords publishes the number of records still waiting for a
// punch-out across every client and day.
func (j *AttendanceJobs) RefreshOpenRecords(ctx context.Context) error {
	count, err := j.attendanceRepo.CountOpen(ctx, "", "")
	if err != nil {
		return fmt.Errorf("count open attendance records: %w", err)
	}
	metrics.OpenRecords.Set(float64(count))
	return nil
}
