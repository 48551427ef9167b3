// Package user provides per-user preference records and the
// append-only interaction log that feed personalized ranking.
package user

import (
	"time"
)

// Preference is a user's stored search preference record. It is
// created or replaced wholesale via upsert and read once per ranking
// request when a user id is present.
type Preference struct {
	UserID             string   `json:"user_id"`
	DietaryPreferences []string `json:"dietary_preferences,omitempty"`
	FavoriteCategories []string `json:"favorite_categories,omitempty"`
	PricePreference    *int     `json:"price_preference,omitempty"` // 1-4 ceiling
	PreferredRadiusKm  *float64 `json:"preferred_radius_km,omitempty"`
	LastLat            *float64 `json:"last_lat,omitempty"`
	LastLng            *float64 `json:"last_lng,omitempty"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// InteractionKind is the type of a logged user action.
type InteractionKind string

// Valid interaction kinds.
const (
	InteractionView     InteractionKind = "view"
	InteractionFavorite InteractionKind = "favorite"
	InteractionVisit    InteractionKind = "visit"
)

// ValidKind reports whether k is one of the known interaction kinds.
func ValidKind(k InteractionKind) bool {
	switch k {
	case InteractionView, InteractionFavorite, InteractionVisit:
		return true
	}
	return false
}

// Interaction is one append-only log entry. Entries are written on
// explicit client action and read in small recent-window batches; they
// are never updated or deleted by this service.
type Interaction struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	RestaurantID int64           `json:"restaurant_id"`
	Kind         InteractionKind `json:"kind"`
	CreatedAt    time.Time       `json:"created_at"`
}
