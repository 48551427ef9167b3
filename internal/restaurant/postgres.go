package restaurant

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"
)

// PostgresStore implements Store backed by PostgreSQL. Cross-request
// consistency is governed entirely by Postgres; this layer adds no
// locking or caching of its own.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore creates a PostgresStore.
func NewPostgresStore(db *sql.DB, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{db: db, logger: logger}
}

// Search executes the candidate query built from the filters. All
// predicate construction lives in buildSearchQuery so that scoring
// never leaks into query building.
func (s *PostgresStore) Search(ctx context.Context, f SearchFilters) ([]*Restaurant, error) {
	query, args := buildSearchQuery(f)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("restaurant search query failed", "error", err)
		return nil, fmt.Errorf("search restaurants: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warn("failed to close rows", "error", err)
		}
	}()

	var results []*Restaurant
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurants: %w", err)
	}
	return results, nil
}

// GetByID retrieves a restaurant by id. Returns (nil, nil) when no row
// exists; an unknown id is not an error.
func (s *PostgresStore) GetByID(ctx context.Context, id int64) (*Restaurant, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, rating, total_reviews, price_level, categories, address,
			lat, lng, reviews, sentiment_score, place_url, dietary_options, popular_dishes, peak_hours
		FROM restaurants
		WHERE id = $1`, id)

	r, err := scanRestaurant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant %d: %w", id, err)
	}
	return r, nil
}

// Insert stores a new restaurant and backfills the generated id.
func (s *PostgresStore) Insert(ctx context.Context, r *Restaurant) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO restaurants
			(name, rating, total_reviews, price_level, categories, address,
			 lat, lng, reviews, sentiment_score, place_url, dietary_options, popular_dishes, peak_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`,
		r.Name, r.Rating, r.TotalReviews, r.PriceLevel, pq.Array(lowercaseAll(r.Categories)),
		r.Address, r.Lat, r.Lng, pq.Array(r.Reviews), r.SentimentScore, r.PlaceURL,
		pq.Array(lowercaseAll(r.DietaryOptions)), pq.Array(r.PopularDishes), pq.Array(r.PeakHours),
	).Scan(&r.ID)
	if err != nil {
		s.logger.Error("restaurant insert failed", "name", r.Name, "error", err)
		return fmt.Errorf("insert restaurant: %w", err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRestaurant reads one restaurant row, including its array columns.
func scanRestaurant(row rowScanner) (*Restaurant, error) {
	var r Restaurant
	var categories, reviews, dietary, dishes, peakHours pq.StringArray

	err := row.Scan(
		&r.ID, &r.Name, &r.Rating, &r.TotalReviews, &r.PriceLevel, &categories,
		&r.Address, &r.Lat, &r.Lng, &reviews, &r.SentimentScore, &r.PlaceURL,
		&dietary, &dishes, &peakHours,
	)
	if err != nil {
		return nil, err
	}

	r.Categories = categories
	r.Reviews = reviews
	r.DietaryOptions = dietary
	r.PopularDishes = dishes
	r.PeakHours = peakHours
	return &r, nil
}

// lowercaseAll lowers every label so array containment and overlap
// predicates stay case-insensitive at the SQL level.
func lowercaseAll(labels []string) []string {
	if labels == nil {
		return nil
	}
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = strings.ToLower(l)
	}
	return out
}
