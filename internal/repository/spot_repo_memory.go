package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Domenick1991/parkingsystem/internal/domain"
)

// MemorySpotRepository is an arena of spots indexed by id, owned by whoever constructs it.
type MemorySpotRepository struct {
	mu    sync.Mutex
	spots map[int]*domain.ParkingSpot
	ids   []int
}

func NewMemorySpotRepository(spots ...domain.ParkingSpot) *MemorySpotRepository {
	r := &MemorySpotRepository{spots: make(map[int]*domain.ParkingSpot)}
	_ = r.Seed(context.Background(), spots)
	return r
}

func (r *MemorySpotRepository) List(_ context.Context, category domain.Category, availableOnly bool) ([]domain.ParkingSpot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	spots := make([]domain.ParkingSpot, 0)
	for _, id := range r.ids {
		s := r.spots[id]
		if category != "" && s.Category != category {
			continue
		}
		if availableOnly && !s.Available {
			continue
		}
		spots = append(spots, *s)
	}
	return spots, nil
}

func (r *MemorySpotRepository) Get(_ context.Context, id int) (*domain.ParkingSpot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.spots[id]
	if !ok {
		return nil, fmt.Errorf("spot %d: %w", id, domain.ErrSpotNotFound)
	}
	cp := *s
	return &cp, nil
}

func (r *MemorySpotRepository) Update(_ context.Context, spot domain.ParkingSpot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.spots[spot.ID]
	if !ok {
		return fmt.Errorf("spot %d: %w", spot.ID, domain.ErrSpotNotFound)
	}
	s.Available = spot.Available
	return nil
}

func (r *MemorySpotRepository) Claim(_ context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.spots[id]
	if !ok {
		return false, fmt.Errorf("spot %d: %w", id, domain.ErrSpotNotFound)
	}
	if !s.Available {
		return false, nil
	}
	s.Available = false
	return true, nil
}

// Seed adds spots whose id is not yet known; existing spots keep their state.
func (r *MemorySpotRepository) Seed(_ context.Context, spots []domain.ParkingSpot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range spots {
		if s.ID <= 0 {
			return fmt.Errorf("spot id %d must be positive: %w", s.ID, domain.ErrInvalidInput)
		}
		if !s.Category.Valid() {
			return fmt.Errorf("spot %d: unknown category %q: %w", s.ID, s.Category, domain.ErrInvalidInput)
		}
		if _, ok := r.spots[s.ID]; ok {
			continue
		}
		cp := s
		r.spots[s.ID] = &cp
		r.ids = append(r.ids, s.ID)
	}
	sort.Ints(r.ids)
	return nil
}

var _ SpotRepository = (*MemorySpotRepository)(nil)
