package repository

import (
	"context"

	"github.com/Domenick1991/parkingsystem/internal/domain"
)

// SpotRepository is the persisted availability table. List returns spots ordered by id;
// an empty category lists every category.
type SpotRepository interface {
	List(ctx context.Context, category domain.Category, availableOnly bool) ([]domain.ParkingSpot, error)
	Get(ctx context.Context, id int) (*domain.ParkingSpot, error)
	Update(ctx context.Context, spot domain.ParkingSpot) error
	// Claim flips an available spot to taken and reports whether this call won it.
	Claim(ctx context.Context, id int) (bool, error)
	Seed(ctx context.Context, spots []domain.ParkingSpot) error
}

type TicketRepository interface {
	CreateOpen(ctx context.Context, ticket *domain.OpenTicket) error
	GetOpenBySpot(ctx context.Context, spotID int) (*domain.OpenTicket, error)
	GetOpenByVehicle(ctx context.Context, regNumber string) (*domain.OpenTicket, error)
	Close(ctx context.Context, ticket domain.ClosedTicket) error
	Reopen(ctx context.Context, id int64) error
	CountByVehicle(ctx context.Context, regNumber string) (int, error)
}

// FacilityLayout numbers car spots first, then bike spots, starting at 1.
func FacilityLayout(carSpots, bikeSpots int) []domain.ParkingSpot {
	spots := make([]domain.ParkingSpot, 0, carSpots+bikeSpots)
	for i := 0; i < carSpots; i++ {
		spots = append(spots, domain.ParkingSpot{ID: len(spots) + 1, Category: domain.CategoryCar, Available: true})
	}
	for i := 0; i < bikeSpots; i++ {
		spots = append(spots, domain.ParkingSpot{ID: len(spots) + 1, Category: domain.CategoryBike, Available: true})
	}
	return spots
}
