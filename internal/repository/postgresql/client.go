package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/client"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type clientRepositoryImpl struct {
	db *database.DB
}

func NewClientRepository(db *database.DB) client.ClientRepository {
	return &clientRepositoryImpl{db: db}
}

// Create implements client.ClientRepository.
func (r *clientRepositoryImpl) Create(ctx context.Context, c client.Client) (client.Client, error) {
	q := GetQuerier(ctx, r.db)

	if c.ID == "" {
		c.ID = newID()
	}

	query := `
		INSERT INTO clients (id, name, timezone, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, name, timezone, created_at, updated_at
	`

	var created client.Client
	err := q.QueryRow(ctx, query, c.ID, c.Name, c.Timezone).Scan(
		&created.ID,
		&created.Name,
		&created.Timezone,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return client.Client{}, client.ErrClientNameExists
		}
		return client.Client{}, fmt.Errorf("failed to create client: %w", err)
	}
	return created, nil
}

// GetByID implements client.ClientRepository.
func (r *clientRepositoryImpl) GetByID(ctx context.Context, id string) (client.Client, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, name, timezone, created_at, updated_at FROM clients WHERE id = $1`

	var c client.Client
	err := q.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Timezone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return client.Client{}, client.ErrClientNotFound
		}
		return client.Client{}, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

// List implements client.ClientRepository.
func (r *clientRepositoryImpl) List(ctx context.Context) ([]client.Client, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name, timezone, created_at, updated_at FROM clients ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []client.Client
	for rows.Next() {
		var c client.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Timezone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return clients, nil
}

// Update implements client.ClientRepository. An empty timezone clears it.
func (r *clientRepositoryImpl) Update(ctx context.Context, req client.UpdateClientRequest) error {
	q := GetQuerier(ctx, r.db)

	// Build dynamic update query
	query := `UPDATE clients SET updated_at = NOW()`
	args := []interface{}{}
	argIdx := 1

	if req.Name != nil {
		query += fmt.Sprintf(", name = $%d", argIdx)
		args = append(args, *req.Name)
		argIdx++
	}

	if req.Timezone != nil {
		query += fmt.Sprintf(", timezone = NULLIF($%d, '')", argIdx)
		args = append(args, *req.Timezone)
		argIdx++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argIdx)
	args = append(args, req.ID)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return client.ErrClientNameExists
		}
		return fmt.Errorf("failed to update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return client.ErrClientNotFound
	}
	return nil
}

// Delete implements client.ClientRepository.
func (r *clientRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return client.ErrClientInUse
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return client.ErrClientNotFound
	}
	return nil
}
