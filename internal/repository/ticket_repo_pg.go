package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/parkingsystem/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGTicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) TicketRepository {
	return &PGTicketRepository{db: db}
}

const (
	uniqueViolation       = "23505"
	openSpotConstraint    = "tickets_open_spot_idx"
	openVehicleConstraint = "tickets_open_vehicle_idx"
)

const openTicketColumns = `t.id, t.vehicle_reg_number, t.in_time, t.loyalty, s.id, s.category, s.available`

func (r *PGTicketRepository) CreateOpen(ctx context.Context, ticket *domain.OpenTicket) error {
	err := r.db.QueryRow(ctx, `INSERT INTO tickets (spot_id, vehicle_reg_number, in_time, loyalty)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, ticket.Spot.ID, ticket.VehicleRegNumber, ticket.InTime, ticket.Loyalty).
		Scan(&ticket.ID)
	return openTicketConflict(err, ticket)
}

// openTicketConflict maps the open-ticket unique indexes to domain errors.
func openTicketConflict(err error, ticket *domain.OpenTicket) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case openVehicleConstraint:
		return fmt.Errorf("vehicle %s: %w", ticket.VehicleRegNumber, domain.ErrVehicleAlreadyParked)
	case openSpotConstraint:
		return fmt.Errorf("spot %d: %w", ticket.Spot.ID, domain.ErrSpotOccupied)
	default:
		return err
	}
}

func (r *PGTicketRepository) GetOpenBySpot(ctx context.Context, spotID int) (*domain.OpenTicket, error) {
	row := r.db.QueryRow(ctx, `SELECT `+openTicketColumns+` FROM tickets t
		JOIN parking_spots s ON s.id = t.spot_id
		WHERE t.spot_id=$1 AND t.out_time IS NULL`, spotID)
	t, err := scanOpenTicket(row)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("open ticket for spot %d: %w", spotID, domain.ErrTicketNotFound)
	}
	return t, err
}

func (r *PGTicketRepository) GetOpenByVehicle(ctx context.Context, regNumber string) (*domain.OpenTicket, error) {
	row := r.db.QueryRow(ctx, `SELECT `+openTicketColumns+` FROM tickets t
		JOIN parking_spots s ON s.id = t.spot_id
		WHERE t.vehicle_reg_number=$1 AND t.out_time IS NULL
		ORDER BY t.in_time DESC LIMIT 1`, regNumber)
	t, err := scanOpenTicket(row)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("open ticket for vehicle %s: %w", regNumber, domain.ErrTicketNotFound)
	}
	return t, err
}

func (r *PGTicketRepository) Close(ctx context.Context, ticket domain.ClosedTicket) error {
	res, err := r.db.Exec(ctx, `UPDATE tickets SET out_time=$1, price=$2, updated_at=now()
		WHERE id=$3 AND out_time IS NULL`, ticket.OutTime, ticket.Price, ticket.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("open ticket %d: %w", ticket.ID, domain.ErrTicketNotFound)
	}
	return nil
}

func (r *PGTicketRepository) Reopen(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `UPDATE tickets SET out_time=NULL, price=NULL, updated_at=now()
		WHERE id=$1 AND out_time IS NOT NULL`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("closed ticket %d: %w", id, domain.ErrTicketNotFound)
	}
	return nil
}

func (r *PGTicketRepository) CountByVehicle(ctx context.Context, regNumber string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM tickets WHERE vehicle_reg_number=$1`, regNumber).Scan(&n)
	return n, err
}

func scanOpenTicket(row pgx.Row) (*domain.OpenTicket, error) {
	var (
		t        domain.OpenTicket
		category string
	)
	if err := row.Scan(&t.ID, &t.VehicleRegNumber, &t.InTime, &t.Loyalty, &t.Spot.ID, &category, &t.Spot.Available); err != nil {
		return nil, err
	}
	c, err := domain.ParseCategory(category)
	if err != nil {
		return nil, fmt.Errorf("ticket %d: %w", t.ID, err)
	}
	t.Spot.Category = c
	return &t, nil
}

var _ TicketRepository = (*PGTicketRepository)(nil)
