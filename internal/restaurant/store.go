package restaurant

import (
	"context"
	"sort"
	"sync"
)

// Store defines restaurant data operations. Implementations are
// explicitly constructed and passed in; there is no package-level
// singleton, so tests substitute the in-memory store.
type Store interface {
	// Search returns at most MaxCandidates restaurants satisfying all
	// supplied filter predicates. An empty result is normal, not an
	// error. Proximity filtering uses the bounding-box approximation.
	Search(ctx context.Context, f SearchFilters) ([]*Restaurant, error)

	// GetByID retrieves a restaurant by id. Returns (nil, nil) when no
	// record exists.
	GetByID(ctx context.Context, id int64) (*Restaurant, error)

	// Insert stores a new restaurant, assigning its id when zero.
	Insert(ctx context.Context, r *Restaurant) error
}

// InMemoryStore is an in-memory Store used for tests and local
// development. Thread-safe via RWMutex. Search iterates records in
// ascending id order, so truncation at MaxCandidates keeps the lowest
// ids; that choice is deterministic for tests but otherwise arbitrary.
type InMemoryStore struct {
	mu     sync.RWMutex
	byID   map[int64]*Restaurant
	nextID int64
}

// NewInMemoryStore creates an empty in-memory restaurant store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:   make(map[int64]*Restaurant),
		nextID: 1,
	}
}

// Search returns at most MaxCandidates restaurants matching the filters.
func (s *InMemoryStore) Search(ctx context.Context, f SearchFilters) ([]*Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var results []*Restaurant
	for _, id := range ids {
		r := s.byID[id]
		if !Matches(f, r) {
			continue
		}
		results = append(results, copyRestaurant(r))
		if len(results) >= MaxCandidates {
			break
		}
	}
	return results, nil
}

// GetByID retrieves a restaurant by id. Returns (nil, nil) when absent.
func (s *InMemoryStore) GetByID(ctx context.Context, id int64) (*Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return copyRestaurant(r), nil
}

// Insert stores a new restaurant, assigning the next id when the
// record's id is zero.
func (s *InMemoryStore) Insert(ctx context.Context, r *Restaurant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == 0 {
		r.ID = s.nextID
	}
	if r.ID >= s.nextID {
		s.nextID = r.ID + 1
	}
	s.byID[r.ID] = copyRestaurant(r)
	return nil
}

// copyRestaurant returns a deep copy so callers can never mutate
// stored records through returned pointers.
func copyRestaurant(r *Restaurant) *Restaurant {
	cp := *r
	cp.Categories = append([]string(nil), r.Categories...)
	cp.Reviews = append([]string(nil), r.Reviews...)
	if r.DietaryOptions != nil {
		cp.DietaryOptions = append([]string(nil), r.DietaryOptions...)
	}
	if r.PopularDishes != nil {
		cp.PopularDishes = append([]string(nil), r.PopularDishes...)
	}
	if r.PeakHours != nil {
		cp.PeakHours = append([]string(nil), r.PeakHours...)
	}
	return &cp
}
