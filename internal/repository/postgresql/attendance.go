package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geofence"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const recordColumns = `
	a.id, a.employee_id, a.client_id, a.work_date, a.in_time, a.out_time, a.location_type,
	a.latitude, a.longitude, a.out_latitude, a.out_longitude, a.status, a.created_at, a.updated_at
`

func recordScanTargets(r *attendance.Record) []interface{} {
	return []interface{}{
		&r.ID, &r.EmployeeID, &r.ClientID, &r.Date, &r.InTime, &r.OutTime, &r.LocationType,
		&r.Latitude, &r.Longitude, &r.OutLatitude, &r.OutLongitude, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	}
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var r attendance.Record
	err := row.Scan(recordScanTargets(&r)...)
	return r, err
}

// CreateOpen implements attendance.AttendanceRepository. The partial unique
// index on (employee_id, work_date) WHERE out_time IS NULL turns a second
// open record into a no-op insert.
func (a *attendanceRepository) CreateOpen(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	if rec.ID == "" {
		rec.ID = newID()
	}

	query := `
		INSERT INTO attendance_records AS a (
			id, employee_id, client_id, work_date, in_time, location_type,
			latitude, longitude, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (employee_id, work_date) WHERE out_time IS NULL DO NOTHING
		RETURNING ` + recordColumns

	created, err := scanRecord(q.QueryRow(ctx, query,
		rec.ID,
		rec.EmployeeID,
		rec.ClientID,
		rec.DayKey(),
		rec.InTime,
		rec.LocationType,
		rec.Latitude,
		rec.Longitude,
		rec.Status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAlreadyPunchedIn
		}
		if isForeignKeyViolation(err) {
			return attendance.Record{}, attendance.ErrEmployeeOrBranchNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return created, nil
}

// CloseLatest implements attendance.AttendanceRepository. Selecting the
// latest record and closing it is one statement, so two concurrent
// punch-outs cannot both succeed.
func (a *attendanceRepository) CloseLatest(ctx context.Context, employeeID string, day string, outTime time.Time, out *geofence.Point) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	var outLat, outLng *float64
	if out != nil {
		outLat, outLng = &out.Latitude, &out.Longitude
	}

	query := `
		UPDATE attendance_records AS a
		SET out_time = $3, out_latitude = $4, out_longitude = $5, updated_at = NOW()
		WHERE a.id = (
			SELECT id FROM attendance_records
			WHERE employee_id = $1 AND work_date = $2::date
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) AND a.out_time IS NULL
		RETURNING ` + recordColumns

	closed, err := scanRecord(q.QueryRow(ctx, query, employeeID, day, outTime, outLat, outLng))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrNotPunchedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to close attendance record: %w", err)
	}

	return closed, nil
}

// GetLatestForDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetLatestForDay(ctx context.Context, employeeID string, day string) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records a
		WHERE a.employee_id = $1 AND a.work_date = $2::date
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT 1
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, employeeID, day))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest attendance record: %w", err)
	}
	return &rec, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	rec, err := scanRecord(q.QueryRow(ctx, `SELECT `+recordColumns+` FROM attendance_records a WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return rec, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	conditions := []string{"a.employee_id = $1"}
	args := []interface{}{employeeID}
	argIdx := 2

	if filter.StartDate != nil && *filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.work_date >= $%d::date", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.work_date <= $%d::date", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance_records a
		WHERE %s
		ORDER BY a.work_date DESC, a.created_at DESC
		LIMIT $%d
	`, recordColumns, strings.Join(conditions, " AND "), argIdx)
	args = append(args, filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

// Report implements attendance.AttendanceRepository.
func (a *attendanceRepository) Report(ctx context.Context, filter attendance.ReportFilter) ([]attendance.ReportRow, error) {
	q := GetQuerier(ctx, a.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	add := func(cond string, arg interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argIdx))
		args = append(args, arg)
		argIdx++
	}

	if filter.ClientID != "" {
		add("a.client_id = $%d", filter.ClientID)
	}
	if filter.Date != nil && *filter.Date != "" {
		add("a.work_date = $%d::date", *filter.Date)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		add("a.work_date >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		add("a.work_date <= $%d::date", *filter.EndDate)
	}
	if filter.BranchID != nil && *filter.BranchID != "" {
		add("e.branch_id = $%d", *filter.BranchID)
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		add("a.employee_id = $%d", *filter.EmployeeID)
	}

	query := fmt.Sprintf(`
		SELECT %s,
			u.name, u.email,
			b.id, b.name, b.timezone,
			c.timezone,
			s.id, s.name, s.start_time, s.grace_period_minutes
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		JOIN users u ON u.id = e.user_id
		JOIN clients c ON c.id = a.client_id
		LEFT JOIN branches b ON b.id = e.branch_id
		LEFT JOIN shifts s ON s.id = e.shift_id
		WHERE %s
		ORDER BY a.work_date DESC, a.created_at DESC
		LIMIT $%d OFFSET $%d
	`, recordColumns, strings.Join(conditions, " AND "), argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance report: %w", err)
	}
	defer rows.Close()

	var report []attendance.ReportRow
	for rows.Next() {
		var row attendance.ReportRow
		targets := append(recordScanTargets(&row.Record),
			&row.EmployeeName, &row.EmployeeEmail,
			&row.BranchID, &row.BranchName, &row.BranchTimezone,
			&row.ClientTimezone,
			&row.ShiftID, &row.ShiftName, &row.ShiftStartTime, &row.ShiftGracePeriodMinutes,
		)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan attendance report row: %w", err)
		}
		report = append(report, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return report, nil
}

// CountOpen implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountOpen(ctx context.Context, clientID string, day string) (int64, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT COUNT(*)
		FROM attendance_records
		WHERE out_time IS NULL
			AND ($1 = '' OR client_id::text = $1)
			AND ($2 = '' OR work_date = NULLIF($2, '')::date)
	`

	var n int64
	if err := q.QueryRow(ctx, query, clientID, day).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count open attendance records: %w", err)
	}
	return n, nil
}

// CountPresentEmployees implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountPresentEmployees(ctx context.Context, clientID string, day string) (int64, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT COUNT(DISTINCT employee_id)
		FROM attendance_records
		WHERE work_date = $2::date
			AND ($1 = '' OR client_id::text = $1)
	`

	var n int64
	if err := q.QueryRow(ctx, query, clientID, day).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count present employees: %w", err)
	}
	return n, nil
}
