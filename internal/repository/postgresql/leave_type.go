package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

const leaveTypeColumns = `id, client_id, name, days_allowed, is_paid, created_at, updated_at`

func scanLeaveType(row pgx.Row) (leave.LeaveType, error) {
	var lt leave.LeaveType
	err := row.Scan(&lt.ID, &lt.ClientID, &lt.Name, &lt.DaysAllowed, &lt.IsPaid, &lt.CreatedAt, &lt.UpdatedAt)
	return lt, err
}

// Create implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Create(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	if lt.ID == "" {
		lt.ID = newID()
	}

	query := `
		INSERT INTO leave_types (id, client_id, name, days_allowed, is_paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + leaveTypeColumns

	created, err := scanLeaveType(q.QueryRow(ctx, query, lt.ID, lt.ClientID, lt.Name, lt.DaysAllowed, lt.IsPaid))
	if err != nil {
		if isUniqueViolation(err) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
		return leave.LeaveType{}, fmt.Errorf("failed to create leave type: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	lt, err := scanLeaveType(q.QueryRow(ctx, `SELECT `+leaveTypeColumns+` FROM leave_types WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	return lt, nil
}

// ListByClient implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) ListByClient(ctx context.Context, clientID string) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT ` + leaveTypeColumns + `
		FROM leave_types
		WHERE ($1 = '' OR client_id::text = $1)
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	defer rows.Close()

	var types []leave.LeaveType
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave type: %w", err)
		}
		types = append(types, lt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return types, nil
}

// Update implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Update(ctx context.Context, lt leave.LeaveType) error {
	q := GetQuerier(ctx, l.db)

	query := `
		UPDATE leave_types
		SET name = $1, days_allowed = $2, is_paid = $3, updated_at = NOW()
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, lt.Name, lt.DaysAllowed, lt.IsPaid, lt.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return leave.ErrLeaveTypeNameExists
		}
		return fmt.Errorf("failed to update leave type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveTypeNotFound
	}
	return nil
}

// Delete implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, l.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_types WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return leave.ErrLeaveTypeInUse
		}
		return fmt.Errorf("failed to delete leave type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveTypeNotFound
	}
	return nil
}
