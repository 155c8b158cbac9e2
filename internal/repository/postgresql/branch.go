package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type branchRepositoryImpl struct {
	db *database.DB
}

func NewBranchRepository(db *database.DB) branch.BranchRepository {
	return &branchRepositoryImpl{db: db}
}

const branchColumns = `id, client_id, name, address, latitude, longitude, radius_meters, timezone, created_at, updated_at`

func scanBranch(row pgx.Row) (branch.Branch, error) {
	var b branch.Branch
	err := row.Scan(
		&b.ID,
		&b.ClientID,
		&b.Name,
		&b.Address,
		&b.Latitude,
		&b.Longitude,
		&b.RadiusMeters,
		&b.Timezone,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

// Create implements branch.BranchRepository.
func (r *branchRepositoryImpl) Create(ctx context.Context, b branch.Branch) (branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	if b.ID == "" {
		b.ID = newID()
	}

	query := `
		INSERT INTO branches (id, client_id, name, address, latitude, longitude, radius_meters, timezone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + branchColumns

	created, err := scanBranch(q.QueryRow(ctx, query,
		b.ID, b.ClientID, b.Name, b.Address, b.Latitude, b.Longitude, b.RadiusMeters, b.Timezone,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return branch.Branch{}, branch.ErrBranchNameExists
		}
		return branch.Branch{}, fmt.Errorf("failed to create branch: %w", err)
	}

	return created, nil
}

// GetByID implements branch.BranchRepository.
func (r *branchRepositoryImpl) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanBranch(q.QueryRow(ctx, `SELECT `+branchColumns+` FROM branches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return branch.Branch{}, branch.ErrBranchNotFound
		}
		return branch.Branch{}, fmt.Errorf("failed to get branch: %w", err)
	}

	return found, nil
}

// GetByClientID implements branch.BranchRepository. An empty clientID lists
// every branch.
func (r *branchRepositoryImpl) GetByClientID(ctx context.Context, clientID string) ([]branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + branchColumns + `
		FROM branches
		WHERE ($1 = '' OR client_id::text = $1)
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}
	defer rows.Close()

	var branches []branch.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		branches = append(branches, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return branches, nil
}

// Update implements branch.BranchRepository.
func (r *branchRepositoryImpl) Update(ctx context.Context, b branch.Branch) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE branches
		SET name = $1, address = $2, latitude = $3, longitude = $4,
			radius_meters = $5, timezone = $6, updated_at = NOW()
		WHERE id = $7
	`

	tag, err := q.Exec(ctx, query, b.Name, b.Address, b.Latitude, b.Longitude, b.RadiusMeters, b.Timezone, b.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return branch.ErrBranchNameExists
		}
		return fmt.Errorf("failed to update branch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return branch.ErrBranchNotFound
	}

	return nil
}

// Delete implements branch.BranchRepository.
func (r *branchRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return branch.ErrBranchInUse
		}
		return fmt.Errorf("failed to delete branch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return branch.ErrBranchNotFound
	}

	return nil
}
