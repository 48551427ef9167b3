package user

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PreferenceStore defines preference record operations. An unknown
// user id is "no preference", not an error.
type PreferenceStore interface {
	// Get retrieves the preference record for a user. Returns
	// (nil, nil) when none exists.
	Get(ctx context.Context, userID string) (*Preference, error)

	// Upsert creates or wholesale-replaces a user's preference record.
	Upsert(ctx context.Context, p *Preference) error
}

// InteractionStore defines append-only interaction log operations.
type InteractionStore interface {
	// Append records one interaction, assigning its id and timestamp
	// when unset.
	Append(ctx context.Context, in *Interaction) error

	// RecentFor returns up to limit interactions for a user, most
	// recent first.
	RecentFor(ctx context.Context, userID string, limit int) ([]*Interaction, error)
}

// InMemoryPreferenceStore is an in-memory PreferenceStore for tests
// and local development. Thread-safe via RWMutex.
type InMemoryPreferenceStore struct {
	mu    sync.RWMutex
	prefs map[string]*Preference
}

// NewInMemoryPreferenceStore creates an empty preference store.
func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{prefs: make(map[string]*Preference)}
}

// Get retrieves a user's preference record, or (nil, nil) when absent.
func (s *InMemoryPreferenceStore) Get(ctx context.Context, userID string) (*Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prefs[userID]
	if !ok {
		return nil, nil
	}
	return copyPreference(p), nil
}

// Upsert creates or replaces a user's preference record.
func (s *InMemoryPreferenceStore) Upsert(ctx context.Context, p *Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := copyPreference(p)
	cp.UpdatedAt = time.Now().UTC()
	s.prefs[cp.UserID] = cp
	return nil
}

// InMemoryInteractionStore is an in-memory InteractionStore.
// Thread-safe via RWMutex. Entries are kept in append order.
type InMemoryInteractionStore struct {
	mu      sync.RWMutex
	entries []*Interaction
}

// NewInMemoryInteractionStore creates an empty interaction store.
func NewInMemoryInteractionStore() *InMemoryInteractionStore {
	return &InMemoryInteractionStore{}
}

// Append records one interaction.
func (s *InMemoryInteractionStore) Append(ctx context.Context, in *Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *in
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	s.entries = append(s.entries, &cp)

	in.ID = cp.ID
	in.CreatedAt = cp.CreatedAt
	return nil
}

// RecentFor returns up to limit interactions for a user, most recent
// first (reverse append order).
func (s *InMemoryInteractionStore) RecentFor(ctx context.Context, userID string, limit int) ([]*Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Interaction
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if s.entries[i].UserID != userID {
			continue
		}
		cp := *s.entries[i]
		out = append(out, &cp)
	}
	return out, nil
}

// copyPreference returns a deep copy so stored records cannot be
// mutated through returned pointers.
func copyPreference(p *Preference) *Preference {
	cp := *p
	if p.DietaryPreferences != nil {
		cp.DietaryPreferences = append([]string(nil), p.DietaryPreferences...)
	}
	if p.FavoriteCategories != nil {
		cp.FavoriteCategories = append([]string(nil), p.FavoriteCategories...)
	}
	if p.PricePreference != nil {
		v := *p.PricePreference
		cp.PricePreference = &v
	}
	if p.PreferredRadiusKm != nil {
		v := *p.PreferredRadiusKm
		cp.PreferredRadiusKm = &v
	}
	if p.LastLat != nil {
		v := *p.LastLat
		cp.LastLat = &v
	}
	if p.LastLng != nil {
		v := *p.LastLng
		cp.LastLng = &v
	}
	return &cp
}
