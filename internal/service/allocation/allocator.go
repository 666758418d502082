package allocation

import (
	"context"
	"fmt"

	"github.com/Domenick1991/parkingsystem/internal/domain"
	"github.com/Domenick1991/parkingsystem/internal/repository"
)

type SpotAllocator interface {
	NextAvailableSpot(ctx context.Context, category domain.Category) (domain.ParkingSpot, error)
	ReleaseSpot(ctx context.Context, spot domain.ParkingSpot) error
}

type Allocator struct {
	spots repository.SpotRepository
}

func NewAllocator(spots repository.SpotRepository) *Allocator {
	return &Allocator{spots: spots}
}

// NextAvailableSpot assigns the lowest-numbered free spot of the category.
// A candidate claimed by someone else between the read and the claim is skipped.
func (a *Allocator) NextAvailableSpot(ctx context.Context, category domain.Category) (domain.ParkingSpot, error) {
	if !category.Valid() {
		return domain.ParkingSpot{}, fmt.Errorf("allocate spot for %q: %w", category, domain.ErrInvalidInput)
	}

	candidates, err := a.spots.List(ctx, category, true)
	if err != nil {
		return domain.ParkingSpot{}, fmt.Errorf("list %s spots: %w", category, err)
	}

	for _, spot := range candidates {
		ok, err := a.spots.Claim(ctx, spot.ID)
		if err != nil {
			return domain.ParkingSpot{}, fmt.Errorf("claim spot %d: %w", spot.ID, err)
		}
		if ok {
			spot.Available = false
			return spot, nil
		}
	}
	return domain.ParkingSpot{}, fmt.Errorf("%s: %w", category, domain.ErrNoAvailableSpot)
}

// ReleaseSpot marks the spot available. Releasing a free spot is a no-op.
func (a *Allocator) ReleaseSpot(ctx context.Context, spot domain.ParkingSpot) error {
	spot.Available = true
	if err := a.spots.Update(ctx, spot); err != nil {
		return fmt.Errorf("release spot %d: %w", spot.ID, err)
	}
	return nil
}

var _ SpotAllocator = (*Allocator)(nil)
