package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestSelect = `
	SELECT
		lr.id, lr.employee_id, lr.client_id, lr.leave_type_id, lr.start_date, lr.end_date,
		lr.reason, lr.status, lr.reviewed_by, lr.reviewed_at, lr.review_note,
		lr.created_at, lr.updated_at,
		u.name, lt.name
	FROM leave_requests lr
	JOIN employees e ON e.id = lr.employee_id
	JOIN users u ON u.id = e.user_id
	JOIN leave_types lt ON lt.id = lr.leave_type_id
`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.ClientID, &lr.LeaveTypeID, &lr.StartDate, &lr.EndDate,
		&lr.Reason, &lr.Status, &lr.ReviewedBy, &lr.ReviewedAt, &lr.ReviewNote,
		&lr.CreatedAt, &lr.UpdatedAt,
		&lr.EmployeeName, &lr.LeaveTypeName,
	)
	return lr, err
}

// Create implements leave.LeaveRequestRepository.
func (l *leaveRequestRepositoryImpl) Create(ctx context.Context, lr leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	if lr.ID == "" {
		lr.ID = newID()
	}
	if lr.Status == "" {
		lr.Status = leave.StatusPending
	}

	query := `
		INSERT INTO leave_requests (
			id, employee_id, client_id, leave_type_id, start_date, end_date, reason, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`

	_, err := q.Exec(ctx, query, lr.ID, lr.EmployeeID, lr.ClientID, lr.LeaveTypeID, lr.StartDate, lr.EndDate, lr.Reason, lr.Status)
	if err != nil {
		if isForeignKeyViolation(err) {
			return leave.LeaveRequest{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return l.GetByID(ctx, lr.ID)
}

// GetByID implements leave.LeaveRequestRepository.
func (l *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	lr, err := scanLeaveRequest(q.QueryRow(ctx, leaveRequestSelect+` WHERE lr.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

// List implements leave.LeaveRequestRepository.
func (l *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.ClientID != "" {
		conditions = append(conditions, fmt.Sprintf("lr.client_id = $%d", argIdx))
		args = append(args, filter.ClientID)
		argIdx++
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("lr.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY lr.created_at DESC
		LIMIT $%d
	`, leaveRequestSelect, strings.Join(conditions, " AND "), argIdx)
	args = append(args, filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return requests, nil
}

// Review implements leave.LeaveRequestRepository.
func (l *leaveRequestRepositoryImpl) Review(ctx context.Context, id string, status leave.RequestStatus, reviewerID string, note *string, at time.Time) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		UPDATE leave_requests
		SET status = $1, reviewed_by = $2, reviewed_at = $3, review_note = $4, updated_at = NOW()
		WHERE id = $5 AND status = 'PENDING'
	`

	tag, err := q.Exec(ctx, query, status, reviewerID, at, note, id)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to review leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either missing or no longer pending.
		if _, err := l.GetByID(ctx, id); err != nil {
			return leave.LeaveRequest{}, err
		}
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	return l.GetByID(ctx, id)
}

// HasOverlap implements leave.LeaveRequestRepository.
func (l *leaveRequestRepositoryImpl) HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
				AND status IN ('PENDING', 'APPROVED')
				AND start_date <= $3 AND end_date >= $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check leave overlap: %w", err)
	}
	return exists, nil
}

// CountPending implements leave.LeaveRequestRepository.
func (l *leaveRequestRepositoryImpl) CountPending(ctx context.Context, clientID string) (int64, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT COUNT(*) FROM leave_requests
		WHERE status = 'PENDING' AND ($1 = '' OR client_id::text = $1)
	`

	var n int64
	if err := q.QueryRow(ctx, query, clientID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pending leave requests: %w", err)
	}
	return n, nil
}
