package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geofence"
)

type attendanceRepository struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

// CreateOpen checks for an open record and appends under the same lock.
func (r *attendanceRepository) CreateOpen(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Record{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	day := rec.DayKey()
	for _, existing := range r.s.records {
		if existing.EmployeeID == rec.EmployeeID && existing.DayKey() == day && existing.OutTime == nil {
			return attendance.Record{}, attendance.ErrAlreadyPunchedIn
		}
	}

	if rec.ID == "" {
		rec.ID = newID()
	}
	r.s.stamp(&rec.CreatedAt, &rec.UpdatedAt)
	r.s.records = append(r.s.records, rec)
	return rec, nil
}

// CloseLatest closes the newest record of the day if it is still open.
func (r *attendanceRepository) CloseLatest(ctx context.Context, employeeID string, day string, outTime time.Time, out *geofence.Point) (attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Record{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	idx := r.latestIndex(employeeID, day)
	if idx < 0 || r.s.records[idx].OutTime != nil {
		return attendance.Record{}, attendance.ErrNotPunchedIn
	}

	rec := r.s.records[idx]
	rec.OutTime = &outTime
	if out != nil {
		rec.OutLatitude = ptr(out.Latitude)
		rec.OutLongitude = ptr(out.Longitude)
	}
	rec.UpdatedAt = outTime
	r.s.records[idx] = rec
	return rec, nil
}

// latestIndex returns the position of the newest record of the day, or -1.
// Callers hold the lock.
func (r *attendanceRepository) latestIndex(employeeID, day string) int {
	for i := len(r.s.records) - 1; i >= 0; i-- {
		rec := r.s.records[i]
		if rec.EmployeeID == employeeID && rec.DayKey() == day {
			return i
		}
	}
	return -1
}

func (r *attendanceRepository) GetLatestForDay(ctx context.Context, employeeID string, day string) (*attendance.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	idx := r.latestIndex(employeeID, day)
	if idx < 0 {
		return nil, nil
	}
	rec := r.s.records[idx]
	return &rec, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rec := range r.s.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func inRange(day string, start, end *string) bool {
	if start != nil && *start != "" && day < *start {
		return false
	}
	if end != nil && *end != "" && day > *end {
		return false
	}
	return true
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) ([]attendance.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []attendance.Record
	for i := len(r.s.records) - 1; i >= 0; i-- {
		rec := r.s.records[i]
		if rec.EmployeeID != employeeID || !inRange(rec.DayKey(), filter.StartDate, filter.EndDate) {
			continue
		}
		out = append(out, rec)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *attendanceRepository) Report(ctx context.Context, filter attendance.ReportFilter) ([]attendance.ReportRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var rows []attendance.ReportRow
	for i := len(r.s.records) - 1; i >= 0; i-- {
		rec := r.s.records[i]
		day := rec.DayKey()

		if filter.ClientID != "" && rec.ClientID != filter.ClientID {
			continue
		}
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Date != nil && *filter.Date != "" && day != *filter.Date {
			continue
		}
		if !inRange(day, filter.StartDate, filter.EndDate) {
			continue
		}

		row := attendance.ReportRow{Record: rec}
		emp, ok := r.s.employees[rec.EmployeeID]
		if ok {
			if u, ok := r.s.users[emp.UserID]; ok {
				row.EmployeeName = u.Name
				row.EmployeeEmail = u.Email
			}
			if emp.BranchID != nil {
				if b, ok := r.s.branches[*emp.BranchID]; ok {
					row.BranchID = ptr(b.ID)
					row.BranchName = ptr(b.Name)
					row.BranchTimezone = b.Timezone
				}
			}
			if emp.ShiftID != nil {
				if sh, ok := r.s.shifts[*emp.ShiftID]; ok {
					row.ShiftID = ptr(sh.ID)
					row.ShiftName = ptr(sh.Name)
					row.ShiftStartTime = ptr(sh.StartTime)
					row.ShiftGracePeriodMinutes = sh.GracePeriodMinutes
				}
			}
		}
		if c, ok := r.s.clients[rec.ClientID]; ok {
			row.ClientTimezone = c.Timezone
		}
		if filter.BranchID != nil && (row.BranchID == nil || *row.BranchID != *filter.BranchID) {
			continue
		}
		rows = append(rows, row)
	}

	// Newest work day first, then newest record first.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].DayKey() > rows[j].DayKey()
	})

	if filter.Offset >= len(rows) {
		return nil, nil
	}
	rows = rows[filter.Offset:]
	if filter.Limit > 0 && len(rows) > filter.Limit {
		rows = rows[:filter.Limit]
	}
	return rows, nil
}

func (r *attendanceRepository) CountOpen(ctx context.Context, clientID string, day string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, rec := range r.s.records {
		if rec.OutTime != nil {
			continue
		}
		if clientID != "" && rec.ClientID != clientID {
			continue
		}
		if day != "" && rec.DayKey() != day {
			continue
		}
		n++
	}
	return n, nil
}

func (r *attendanceRepository) CountPresentEmployees(ctx context.Context, clientID string, day string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, rec := range r.s.records {
		if rec.DayKey() != day || (clientID != "" && rec.ClientID != clientID) {
			continue
		}
		seen[rec.EmployeeID] = struct{}{}
	}
	return int64(len(seen)), nil
}
