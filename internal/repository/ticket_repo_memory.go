package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/Domenick1991/parkingsystem/internal/domain"
)

type memoryTicket struct {
	open   domain.OpenTicket
	closed *domain.ClosedTicket
}

type MemoryTicketRepository struct {
	mu      sync.Mutex
	nextID  int64
	tickets []*memoryTicket
}

func NewMemoryTicketRepository() *MemoryTicketRepository {
	return &MemoryTicketRepository{}
}

func (r *MemoryTicketRepository) CreateOpen(_ context.Context, ticket *domain.OpenTicket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tickets {
		if t.closed != nil {
			continue
		}
		if t.open.Spot.ID == ticket.Spot.ID {
			return fmt.Errorf("spot %d: %w", ticket.Spot.ID, domain.ErrSpotOccupied)
		}
		if t.open.VehicleRegNumber == ticket.VehicleRegNumber {
			return fmt.Errorf("vehicle %s: %w", ticket.VehicleRegNumber, domain.ErrVehicleAlreadyParked)
		}
	}

	r.nextID++
	ticket.ID = r.nextID
	r.tickets = append(r.tickets, &memoryTicket{open: *ticket})
	return nil
}

func (r *MemoryTicketRepository) GetOpenBySpot(_ context.Context, spotID int) (*domain.OpenTicket, error) {
	return r.findOpen(func(t domain.OpenTicket) bool { return t.Spot.ID == spotID },
		fmt.Errorf("open ticket for spot %d: %w", spotID, domain.ErrTicketNotFound))
}

func (r *MemoryTicketRepository) GetOpenByVehicle(_ context.Context, regNumber string) (*domain.OpenTicket, error) {
	return r.findOpen(func(t domain.OpenTicket) bool { return t.VehicleRegNumber == regNumber },
		fmt.Errorf("open ticket for vehicle %s: %w", regNumber, domain.ErrTicketNotFound))
}

func (r *MemoryTicketRepository) Close(_ context.Context, ticket domain.ClosedTicket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tickets {
		if t.open.ID == ticket.ID && t.closed == nil {
			cp := ticket
			t.closed = &cp
			return nil
		}
	}
	return fmt.Errorf("open ticket %d: %w", ticket.ID, domain.ErrTicketNotFound)
}

// Reopen undoes Close for a ticket whose exit could not be completed.
func (r *MemoryTicketRepository) Reopen(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tickets {
		if t.open.ID == id && t.closed != nil {
			t.closed = nil
			return nil
		}
	}
	return fmt.Errorf("closed ticket %d: %w", id, domain.ErrTicketNotFound)
}

func (r *MemoryTicketRepository) CountByVehicle(_ context.Context, regNumber string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, t := range r.tickets {
		if t.open.VehicleRegNumber == regNumber {
			n++
		}
	}
	return n, nil
}

func (r *MemoryTicketRepository) findOpen(match func(domain.OpenTicket) bool, notFound error) (*domain.OpenTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tickets {
		if t.closed == nil && match(t.open) {
			cp := t.open
			return &cp, nil
		}
	}
	return nil, notFound
}

var _ TicketRepository = (*MemoryTicketRepository)(nil)
