// Package importer loads restaurant dataset CSV files into a
// restaurant store, from a local file or S3-compatible object storage.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tablescout/tablescout/internal/restaurant"
)

// csv column layout of a dataset file. The header row is required and
// must match exactly.
var expectedHeader = []string{
	"name", "rating", "total_reviews", "price_level", "categories",
	"address", "lat", "lng", "sentiment_score", "place_url",
	"dietary_options", "popular_dishes", "peak_hours",
}

// listSeparator splits multi-valued CSV cells (categories, dietary
// options, dishes, peak hours).
const listSeparator = ";"

// Result summarizes one import run.
type Result struct {
	Imported int
	Skipped  int
}

// Importer parses dataset CSV and inserts rows into a store. Malformed
// rows are skipped and counted, never fatal: a partially bad dataset
// file still loads its good rows.
type Importer struct {
	store  restaurant.Store
	logger *slog.Logger
}

// New creates an Importer.
func New(store restaurant.Store, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: store, logger: logger}
}

// Import reads CSV from r and inserts every well-formed row.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(expectedHeader)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	res := &Result{}
	line := 1
	for {
		line++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Wrong field count or bare quote; skip the row.
			im.logger.Warn("skipping malformed row", "line", line, "error", err)
			res.Skipped++
			continue
		}

		rec, err := parseRow(record)
		if err != nil {
			im.logger.Warn("skipping invalid row", "line", line, "error", err)
			res.Skipped++
			continue
		}

		if err := im.store.Insert(ctx, rec); err != nil {
			return res, fmt.Errorf("insert row %d: %w", line, err)
		}
		res.Imported++
	}

	im.logger.Info("dataset import finished",
		"imported", res.Imported, "skipped", res.Skipped)
	return res, nil
}

// validateHeader checks the CSV header row.
func validateHeader(header []string) error {
	if len(header) != len(expectedHeader) {
		return fmt.Errorf("header has %d columns, want %d", len(header), len(expectedHeader))
	}
	for i, col := range header {
		if strings.TrimSpace(strings.ToLower(col)) != expectedHeader[i] {
			return fmt.Errorf("header column %d is %q, want %q", i, col, expectedHeader[i])
		}
	}
	return nil
}

// parseRow converts one CSV record into a restaurant.
func parseRow(record []string) (*restaurant.Restaurant, error) {
	name := strings.TrimSpace(record[0])
	if name == "" {
		return nil, fmt.Errorf("empty name")
	}

	rating, err := strconv.ParseFloat(record[1], 64)
	if err != nil || rating < 0 || rating > 5 {
		return nil, fmt.Errorf("invalid rating %q", record[1])
	}

	totalReviews, err := strconv.Atoi(record[2])
	if err != nil || totalReviews < 0 {
		return nil, fmt.Errorf("invalid total_reviews %q", record[2])
	}

	priceLevel, err := strconv.Atoi(record[3])
	if err != nil || priceLevel < 1 || priceLevel > 4 {
		return nil, fmt.Errorf("invalid price_level %q", record[3])
	}

	categories := splitList(record[4])
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories")
	}

	lat, err := strconv.ParseFloat(record[6], 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("invalid lat %q", record[6])
	}
	lng, err := strconv.ParseFloat(record[7], 64)
	if err != nil || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("invalid lng %q", record[7])
	}

	sentiment, err := strconv.ParseFloat(record[8], 64)
	if err != nil || sentiment < -1 || sentiment > 1 {
		return nil, fmt.Errorf("invalid sentiment_score %q", record[8])
	}

	return &restaurant.Restaurant{
		Name:           name,
		Rating:         rating,
		TotalReviews:   totalReviews,
		PriceLevel:     priceLevel,
		Categories:     categories,
		Address:        strings.TrimSpace(record[5]),
		Lat:            lat,
		Lng:            lng,
		SentimentScore: sentiment,
		PlaceURL:       strings.TrimSpace(record[9]),
		DietaryOptions: splitList(record[10]),
		PopularDishes:  splitList(record[11]),
		PeakHours:      splitList(record[12]),
	}, nil
}

// splitList splits a semicolon-separated cell, dropping empty entries.
func splitList(cell string) []string {
	var out []string
	for _, item := range strings.Split(cell, listSeparator) {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
