package user

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresPreferenceStore implements PreferenceStore on PostgreSQL.
type PostgresPreferenceStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresPreferenceStore creates a PostgresPreferenceStore.
func NewPostgresPreferenceStore(db *sql.DB, logger *slog.Logger) *PostgresPreferenceStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPreferenceStore{db: db, logger: logger}
}

// Get retrieves a user's preference record. Returns (nil, nil) when no
// row exists; an unknown user is not an error.
func (s *PostgresPreferenceStore) Get(ctx context.Context, userID string) (*Preference, error) {
	var p Preference
	var dietary, categories pq.StringArray

	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, dietary_preferences, favorite_categories, price_preference,
			preferred_radius_km, last_lat, last_lng, updated_at
		FROM user_preferences
		WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &dietary, &categories, &p.PricePreference,
		&p.PreferredRadiusKm, &p.LastLat, &p.LastLng, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preference for %s: %w", userID, err)
	}

	p.DietaryPreferences = dietary
	p.FavoriteCategories = categories
	return &p, nil
}

// Upsert creates or wholesale-replaces a user's preference record.
func (s *PostgresPreferenceStore) Upsert(ctx context.Context, p *Preference) error {
	p.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_preferences
			(user_id, dietary_preferences, favorite_categories, price_preference,
			 preferred_radius_km, last_lat, last_lng, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			dietary_preferences = EXCLUDED.dietary_preferences,
			favorite_categories = EXCLUDED.favorite_categories,
			price_preference = EXCLUDED.price_preference,
			preferred_radius_km = EXCLUDED.preferred_radius_km,
			last_lat = EXCLUDED.last_lat,
			last_lng = EXCLUDED.last_lng,
			updated_at = EXCLUDED.updated_at`,
		p.UserID, pq.Array(p.DietaryPreferences), pq.Array(p.FavoriteCategories),
		p.PricePreference, p.PreferredRadiusKm, p.LastLat, p.LastLng, p.UpdatedAt)
	if err != nil {
		s.logger.Error("preference upsert failed", "user_id", p.UserID, "error", err)
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

// PostgresInteractionStore implements InteractionStore on PostgreSQL.
// The table is append-only; this store issues no UPDATE or DELETE.
type PostgresInteractionStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresInteractionStore creates a PostgresInteractionStore.
func NewPostgresInteractionStore(db *sql.DB, logger *slog.Logger) *PostgresInteractionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresInteractionStore{db: db, logger: logger}
}

// Append records one interaction.
func (s *PostgresInteractionStore) Append(ctx context.Context, in *Interaction) error {
	if in.ID == "" {
		in.ID = uuid.New().String()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_interactions (id, user_id, restaurant_id, kind, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		in.ID, in.UserID, in.RestaurantID, string(in.Kind), in.CreatedAt)
	if err != nil {
		s.logger.Error("interaction append failed", "user_id", in.UserID, "error", err)
		return fmt.Errorf("append interaction: %w", err)
	}
	return nil
}

// RecentFor returns up to limit interactions for a user, most recent
// first. Ties on created_at break by id for a stable order.
func (s *PostgresInteractionStore) RecentFor(ctx context.Context, userID string, limit int) ([]*Interaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, restaurant_id, kind, created_at
		FROM user_interactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent interactions for %s: %w", userID, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warn("failed to close rows", "error", err)
		}
	}()

	var out []*Interaction
	for rows.Next() {
		var in Interaction
		var kind string
		if err := rows.Scan(&in.ID, &in.UserID, &in.RestaurantID, &kind, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		in.Kind = InteractionKind(kind)
		out = append(out, &in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return out, nil
}
