package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeSelect = `
	SELECT
		e.id, e.user_id, e.client_id, e.branch_id, e.shift_id, e.designation,
		e.created_at, e.updated_at,
		u.name, u.email, u.role,
		b.name AS branch_name,
		s.name AS shift_name
	FROM employees e
	JOIN users u ON u.id = e.user_id
	LEFT JOIN branches b ON b.id = e.branch_id
	LEFT JOIN shifts s ON s.id = e.shift_id
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.ClientID, &emp.BranchID, &emp.ShiftID, &emp.Designation,
		&emp.CreatedAt, &emp.UpdatedAt,
		&emp.Name, &emp.Email, &emp.Role,
		&emp.BranchName, &emp.ShiftName,
	)
	return emp, err
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	if emp.ID == "" {
		emp.ID = newID()
	}

	query := `
		INSERT INTO employees (id, user_id, client_id, branch_id, shift_id, designation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`

	_, err := q.Exec(ctx, query, emp.ID, emp.UserID, emp.ClientID, emp.BranchID, emp.ShiftID, emp.Designation)
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrProfileExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return e.GetByID(ctx, emp.ID)
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	emp, err := scanEmployee(q.QueryRow(ctx, employeeSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}
	return emp, nil
}

// GetByUserID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	emp, err := scanEmployee(q.QueryRow(ctx, employeeSelect+` WHERE e.user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee for user %s: %w", userID, err)
	}
	return emp, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	// Build WHERE conditions
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.ClientID != "" {
		conditions = append(conditions, fmt.Sprintf("e.client_id = $%d", argIdx))
		args = append(args, filter.ClientID)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(u.name ILIKE $%d OR u.email ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.BranchID != nil && *filter.BranchID != "" {
		conditions = append(conditions, fmt.Sprintf("e.branch_id = $%d", argIdx))
		args = append(args, *filter.BranchID)
		argIdx++
	}
	if filter.ShiftID != nil && *filter.ShiftID != "" {
		conditions = append(conditions, fmt.Sprintf("e.shift_id = $%d", argIdx))
		args = append(args, *filter.ShiftID)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	// Count query
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM employees e JOIN users u ON u.id = e.user_id WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	// Main query with pagination
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY u.name ASC
		LIMIT $%d OFFSET $%d
	`, employeeSelect, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// Update implements employee.EmployeeRepository. It writes the branch,
// shift and designation.
func (e *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET branch_id = $1, shift_id = $2, designation = $3, updated_at = NOW()
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, emp.BranchID, emp.ShiftID, emp.Designation, emp.ID)
	if err != nil {
		return fmt.Errorf("failed to update employee with id %s: %w", emp.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (e *employeeRepositoryImpl) count(ctx context.Context, query string, arg string) (int64, error) {
	q := GetQuerier(ctx, e.db)

	var n int64
	if err := q.QueryRow(ctx, query, arg).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return n, nil
}

// Count implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Count(ctx context.Context, clientID string) (int64, error) {
	return e.count(ctx, `SELECT COUNT(*) FROM employees WHERE ($1 = '' OR client_id::text = $1)`, clientID)
}

// CountByBranch implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) CountByBranch(ctx context.Context, branchID string) (int64, error) {
	return e.count(ctx, `SELECT COUNT(*) FROM employees WHERE branch_id = $1`, branchID)
}

// CountByShift implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) CountByShift(ctx context.Context, shiftID string) (int64, error) {
	return e.count(ctx, `SELECT COUNT(*) FROM employees WHERE shift_id = $1`, shiftID)
}
