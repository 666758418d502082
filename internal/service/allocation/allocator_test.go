package allocation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Domenick1991/parkingsystem/internal/domain"
	"github.com/Domenick1991/parkingsystem/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSpotRepository struct {
	mock.Mock
}

func (m *MockSpotRepository) List(ctx context.Context, category domain.Category, availableOnly bool) ([]domain.ParkingSpot, error) {
	args := m.Called(ctx, category, availableOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParkingSpot), args.Error(1)
}

func (m *MockSpotRepository) Get(ctx context.Context, id int) (*domain.ParkingSpot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingSpot), args.Error(1)
}

func (m *MockSpotRepository) Update(ctx context.Context, spot domain.ParkingSpot) error {
	args := m.Called(ctx, spot)
	return args.Error(0)
}

func (m *MockSpotRepository) Claim(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSpotRepository) Seed(ctx context.Context, spots []domain.ParkingSpot) error {
	args := m.Called(ctx, spots)
	return args.Error(0)
}

func TestAllocator_NextAvailableSpot_LowestFreeID(t *testing.T) {
	ctx := context.Background()
	spots := repository.NewMemorySpotRepository(
		domain.ParkingSpot{ID: 1, Category: domain.CategoryCar, Available: true},
		domain.ParkingSpot{ID: 2, Category: domain.CategoryCar, Available: false},
		domain.ParkingSpot{ID: 3, Category: domain.CategoryCar, Available: true},
	)
	allocator := NewAllocator(spots)

	spot, err := allocator.NextAvailableSpot(ctx, domain.CategoryCar)

	require.NoError(t, err)
	assert.Equal(t, 1, spot.ID)
	assert.False(t, spot.Available)

	stored, err := spots.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, stored.Available)

	spot, err = allocator.NextAvailableSpot(ctx, domain.CategoryCar)
	require.NoError(t, err)
	assert.Equal(t, 3, spot.ID)
}

func TestAllocator_NextAvailableSpot_RespectsCategory(t *testing.T) {
	ctx := context.Background()
	allocator := NewAllocator(repository.NewMemorySpotRepository(repository.FacilityLayout(3, 2)...))

	spot, err := allocator.NextAvailableSpot(ctx, domain.CategoryBike)

	require.NoError(t, err)
	assert.Equal(t, 4, spot.ID)
	assert.Equal(t, domain.CategoryBike, spot.Category)
}

func TestAllocator_NextAvailableSpot_Exhausted(t *testing.T) {
	ctx := context.Background()
	allocator := NewAllocator(repository.NewMemorySpotRepository(
		domain.ParkingSpot{ID: 1, Category: domain.CategoryCar, Available: false},
		domain.ParkingSpot{ID: 2, Category: domain.CategoryBike, Available: true},
	))

	_, err := allocator.NextAvailableSpot(ctx, domain.CategoryCar)

	assert.True(t, errors.Is(err, domain.ErrNoAvailableSpot))
}

func TestAllocator_NextAvailableSpot_UnsetCategory(t *testing.T) {
	mockSpots := &MockSpotRepository{}
	allocator := NewAllocator(mockSpots)

	_, err := allocator.NextAvailableSpot(context.Background(), "")

	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	mockSpots.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestAllocator_NextAvailableSpot_LostRace(t *testing.T) {
	ctx := context.Background()
	mockSpots := &MockSpotRepository{}
	allocator := NewAllocator(mockSpots)

	mockSpots.On("List", ctx, domain.CategoryCar, true).Return([]domain.ParkingSpot{
		{ID: 1, Category: domain.CategoryCar, Available: true},
		{ID: 3, Category: domain.CategoryCar, Available: true},
	}, nil).Once()
	mockSpots.On("Claim", ctx, 1).Return(false, nil).Once()
	mockSpots.On("Claim", ctx, 3).Return(true, nil).Once()

	spot, err := allocator.NextAvailableSpot(ctx, domain.CategoryCar)

	require.NoError(t, err)
	assert.Equal(t, 3, spot.ID)
	mockSpots.AssertExpectations(t)
}

func TestAllocator_NextAvailableSpot_StoreError(t *testing.T) {
	ctx := context.Background()
	mockSpots := &MockSpotRepository{}
	allocator := NewAllocator(mockSpots)
	storeErr := errors.New("connection refused")

	mockSpots.On("List", ctx, domain.CategoryBike, true).Return(nil, storeErr).Once()

	_, err := allocator.NextAvailableSpot(ctx, domain.CategoryBike)

	assert.True(t, errors.Is(err, storeErr))
	mockSpots.AssertExpectations(t)
}

func TestAllocator_NextAvailableSpot_NoDoubleAssignment(t *testing.T) {
	ctx := context.Background()
	allocator := NewAllocator(repository.NewMemorySpotRepository(repository.FacilityLayout(5, 0)...))

	const callers = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		assigned = make(map[int]int)
		failures int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			spot, err := allocator.NextAvailableSpot(ctx, domain.CategoryCar)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				return
			}
			assigned[spot.ID]++
		}()
	}
	wg.Wait()

	assert.Len(t, assigned, 5)
	for id, n := range assigned {
		assert.Equal(t, 1, n, "spot %d assigned %d times", id, n)
	}
	assert.Equal(t, callers-5, failures)
}

func TestAllocator_ReleaseSpot_Idempotent(t *testing.T) {
	ctx := context.Background()
	spots := repository.NewMemorySpotRepository(domain.ParkingSpot{ID: 1, Category: domain.CategoryCar, Available: true})
	allocator := NewAllocator(spots)

	spot, err := allocator.NextAvailableSpot(ctx, domain.CategoryCar)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, allocator.ReleaseSpot(ctx, spot))
		stored, err := spots.Get(ctx, spot.ID)
		require.NoError(t, err)
		assert.True(t, stored.Available)
	}

	again, err := allocator.NextAvailableSpot(ctx, domain.CategoryCar)
	require.NoError(t, err)
	assert.Equal(t, 1, again.ID)
}

func TestAllocator_ReleaseSpot_Unknown(t *testing.T) {
	allocator := NewAllocator(repository.NewMemorySpotRepository())

	err := allocator.ReleaseSpot(context.Background(), domain.ParkingSpot{ID: 42, Category: domain.CategoryCar})

	assert.True(t, errors.Is(err, domain.ErrSpotNotFound))
}
