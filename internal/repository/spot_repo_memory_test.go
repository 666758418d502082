package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/parkingsystem/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacilityLayout(t *testing.T) {
	spots := FacilityLayout(3, 2)

	require.Len(t, spots, 5)
	for i, s := range spots {
		assert.Equal(t, i+1, s.ID)
		assert.True(t, s.Available)
	}
	assert.Equal(t, domain.CategoryCar, spots[2].Category)
	assert.Equal(t, domain.CategoryBike, spots[3].Category)
}

func TestMemorySpotRepository_ListOrdersByID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySpotRepository(
		domain.ParkingSpot{ID: 3, Category: domain.CategoryCar, Available: true},
		domain.ParkingSpot{ID: 1, Category: domain.CategoryCar, Available: true},
		domain.ParkingSpot{ID: 2, Category: domain.CategoryCar, Available: false},
		domain.ParkingSpot{ID: 4, Category: domain.CategoryBike, Available: true},
	)

	all, err := repo.List(ctx, "", false)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, spotIDs(all))

	free, err := repo.List(ctx, domain.CategoryCar, true)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, spotIDs(free))
}

func TestMemorySpotRepository_Claim(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySpotRepository(domain.ParkingSpot{ID: 1, Category: domain.CategoryCar, Available: true})

	ok, err := repo.Claim(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Claim(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.Claim(ctx, 99)
	assert.True(t, errors.Is(err, domain.ErrSpotNotFound))
}

func TestMemorySpotRepository_SeedKeepsState(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySpotRepository(FacilityLayout(1, 0)...)
	require.NoError(t, repo.Update(ctx, domain.ParkingSpot{ID: 1, Available: false}))

	require.NoError(t, repo.Seed(ctx, FacilityLayout(1, 1)))

	s, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, s.Available)

	err = repo.Seed(ctx, []domain.ParkingSpot{{ID: 9}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestMemoryTicketRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTicketRepository()
	spot := domain.ParkingSpot{ID: 1, Category: domain.CategoryCar}

	ticket := &domain.OpenTicket{Spot: spot, VehicleRegNumber: "ABCDEF"}
	require.NoError(t, repo.CreateOpen(ctx, ticket))
	assert.Equal(t, int64(1), ticket.ID)

	err := repo.CreateOpen(ctx, &domain.OpenTicket{Spot: domain.ParkingSpot{ID: 2}, VehicleRegNumber: "ABCDEF"})
	assert.True(t, errors.Is(err, domain.ErrVehicleAlreadyParked))

	byVehicle, err := repo.GetOpenByVehicle(ctx, "ABCDEF")
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, byVehicle.ID)

	bySpot, err := repo.GetOpenBySpot(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, bySpot.ID)

	require.NoError(t, repo.Close(ctx, domain.ClosedTicket{OpenTicket: *ticket, Price: 1.5}))
	err = repo.Close(ctx, domain.ClosedTicket{OpenTicket: *ticket})
	assert.True(t, errors.Is(err, domain.ErrTicketNotFound))

	_, err = repo.GetOpenBySpot(ctx, 1)
	assert.True(t, errors.Is(err, domain.ErrTicketNotFound))

	n, err := repo.CountByVehicle(ctx, "ABCDEF")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryTicketRepository_SpotOccupied(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTicketRepository()
	spot := domain.ParkingSpot{ID: 1, Category: domain.CategoryCar}

	require.NoError(t, repo.CreateOpen(ctx, &domain.OpenTicket{Spot: spot, VehicleRegNumber: "AAA"}))

	err := repo.CreateOpen(ctx, &domain.OpenTicket{Spot: spot, VehicleRegNumber: "BBB"})
	assert.True(t, errors.Is(err, domain.ErrSpotOccupied))
}

func TestMemoryTicketRepository_Reopen(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTicketRepository()
	ticket := &domain.OpenTicket{Spot: domain.ParkingSpot{ID: 1, Category: domain.CategoryCar}, VehicleRegNumber: "ABC"}
	require.NoError(t, repo.CreateOpen(ctx, ticket))

	err := repo.Reopen(ctx, ticket.ID)
	assert.True(t, errors.Is(err, domain.ErrTicketNotFound))

	require.NoError(t, repo.Close(ctx, domain.ClosedTicket{OpenTicket: *ticket, Price: 2}))
	require.NoError(t, repo.Reopen(ctx, ticket.ID))

	open, err := repo.GetOpenByVehicle(ctx, "ABC")
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, open.ID)
}

func spotIDs(spots []domain.ParkingSpot) []int {
	ids := make([]int, 0, len(spots))
	for _, s := range spots {
		ids = append(ids, s.ID)
	}
	return ids
}
