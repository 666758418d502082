package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/parkingsystem/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGSpotRepository struct {
	db *pgxpool.Pool
}

func NewSpotRepository(db *pgxpool.Pool) SpotRepository {
	return &PGSpotRepository{db: db}
}

func (r *PGSpotRepository) List(ctx context.Context, category domain.Category, availableOnly bool) ([]domain.ParkingSpot, error) {
	rows, err := r.db.Query(ctx, `SELECT id, category, available FROM parking_spots
		WHERE ($1 = '' OR category = $1) AND (NOT $2 OR available)
		ORDER BY id`, string(category), availableOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spots := make([]domain.ParkingSpot, 0)
	for rows.Next() {
		s, err := scanSpot(rows)
		if err != nil {
			return nil, err
		}
		spots = append(spots, *s)
	}
	return spots, rows.Err()
}

func (r *PGSpotRepository) Get(ctx context.Context, id int) (*domain.ParkingSpot, error) {
	row := r.db.QueryRow(ctx, `SELECT id, category, available FROM parking_spots WHERE id=$1`, id)
	s, err := scanSpot(row)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("spot %d: %w", id, domain.ErrSpotNotFound)
	}
	return s, err
}

func (r *PGSpotRepository) Update(ctx context.Context, spot domain.ParkingSpot) error {
	res, err := r.db.Exec(ctx, `UPDATE parking_spots SET available=$1, updated_at=now() WHERE id=$2`, spot.Available, spot.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("spot %d: %w", spot.ID, domain.ErrSpotNotFound)
	}
	return nil
}

func (r *PGSpotRepository) Claim(ctx context.Context, id int) (bool, error) {
	res, err := r.db.Exec(ctx, `UPDATE parking_spots SET available=false, updated_at=now() WHERE id=$1 AND available`, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (r *PGSpotRepository) Seed(ctx context.Context, spots []domain.ParkingSpot) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, s := range spots {
		if _, err := tx.Exec(ctx, `INSERT INTO parking_spots (id, category, available) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO NOTHING`, s.ID, string(s.Category), s.Available); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func scanSpot(row pgx.Row) (*domain.ParkingSpot, error) {
	var (
		s        domain.ParkingSpot
		category string
	)
	if err := row.Scan(&s.ID, &category, &s.Available); err != nil {
		return nil, err
	}
	c, err := domain.ParseCategory(category)
	if err != nil {
		return nil, fmt.Errorf("spot %d: %w", s.ID, err)
	}
	s.Category = c
	return &s, nil
}

var _ SpotRepository = (*PGSpotRepository)(nil)
