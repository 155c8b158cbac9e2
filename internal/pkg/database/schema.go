package database

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		timezone   TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		client_id     UUID REFERENCES clients(id) ON DELETE RESTRICT,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL CHECK (role IN ('SUPER_ADMIN', 'CLIENT_ADMIN', 'MANAGER', 'EMPLOYEE')),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS branches (
		id            UUID PRIMARY KEY,
		client_id     UUID NOT NULL REFERENCES clients(id) ON DELETE RESTRICT,
		name          TEXT NOT NULL,
		address       TEXT,
		latitude      DOUBLE PRECISION,
		longitude     DOUBLE PRECISION,
		radius_meters INTEGER NOT NULL DEFAULT 100 CHECK (radius_meters > 0),
		timezone      TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (client_id, name),
		CHECK ((latitude IS NULL) = (longitude IS NULL))
	)`,
	`CREATE TABLE IF NOT EXISTS shifts (
		id                   UUID PRIMARY KEY,
		client_id            UUID NOT NULL REFERENCES clients(id) ON DELETE RESTRICT,
		name                 TEXT NOT NULL,
		start_time           TEXT NOT NULL,
		end_time             TEXT NOT NULL,
		grace_period_minutes INTEGER,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (client_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id          UUID PRIMARY KEY,
		user_id     UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		client_id   UUID NOT NULL REFERENCES clients(id) ON DELETE RESTRICT,
		branch_id   UUID REFERENCES branches(id) ON DELETE RESTRICT,
		shift_id    UUID REFERENCES shifts(id) ON DELETE RESTRICT,
		designation TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS attendance_records (
		id            UUID PRIMARY KEY,
		employee_id   UUID NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		client_id     UUID NOT NULL REFERENCES clients(id) ON DELETE RESTRICT,
		work_date     DATE NOT NULL,
		in_time       TIMESTAMPTZ,
		out_time      TIMESTAMPTZ,
		location_type TEXT NOT NULL CHECK (location_type IN ('OFFICE', 'REMOTE')),
		latitude      DOUBLE PRECISION NOT NULL,
		longitude     DOUBLE PRECISION NOT NULL,
		out_latitude  DOUBLE PRECISION,
		out_longitude DOUBLE PRECISION,
		status        TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// At most one open record per employee and work date.
	`CREATE UNIQUE INDEX IF NOT EXISTS attendance_records_one_open_per_day
		ON attendance_records (employee_id, work_date) WHERE out_time IS NULL`,
	`CREATE INDEX IF NOT EXISTS attendance_records_employee_day
		ON attendance_records (employee_id, work_date, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS attendance_records_client_day
		ON attendance_records (client_id, work_date)`,
	`CREATE TABLE IF NOT EXISTS leave_types (
		id           UUID PRIMARY KEY,
		client_id    UUID NOT NULL REFERENCES clients(id) ON DELETE RESTRICT,
		name         TEXT NOT NULL,
		days_allowed INTEGER NOT NULL DEFAULT 0,
		is_paid      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (client_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS leave_requests (
		id            UUID PRIMARY KEY,
		employee_id   UUID NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		client_id     UUID NOT NULL REFERENCES clients(id) ON DELETE RESTRICT,
		leave_type_id UUID NOT NULL REFERENCES leave_types(id) ON DELETE RESTRICT,
		start_date    DATE NOT NULL,
		end_date      DATE NOT NULL CHECK (end_date >= start_date),
		reason        TEXT,
		status        TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED')),
		reviewed_by   UUID REFERENCES users(id) ON DELETE SET NULL,
		reviewed_at   TIMESTAMPTZ,
		review_note   TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS leave_requests_client_status
		ON leave_requests (client_id, status)`,
}

// Migrate creates any missing tables and indexes.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}
