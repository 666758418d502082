package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS parking_spots (
		id INTEGER PRIMARY KEY CHECK (id > 0),
		category TEXT NOT NULL CHECK (category IN ('CAR', 'BIKE')),
		available BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id BIGSERIAL PRIMARY KEY,
		spot_id INTEGER NOT NULL REFERENCES parking_spots(id),
		vehicle_reg_number TEXT NOT NULL,
		in_time TIMESTAMPTZ NOT NULL,
		out_time TIMESTAMPTZ,
		price DOUBLE PRECISION,
		loyalty BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS tickets_open_spot_idx ON tickets (spot_id) WHERE out_time IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS tickets_open_vehicle_idx ON tickets (vehicle_reg_number) WHERE out_time IS NULL`,
	`CREATE INDEX IF NOT EXISTS tickets_vehicle_idx ON tickets (vehicle_reg_number)`,
}

// Migrate creates the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
