package ranking

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Calibration holds both ranking weight sets.
type Calibration struct {
	Anonymous Weights         `json:"anonymous"`
	Personal  PersonalWeights `json:"personal"`
}

// calibrationFile is the JSON structure of the calibration file.
type calibrationFile struct {
	Version string      `json:"version"`
	Weights Calibration `json:"weights"`
}

// DefaultCalibration returns the default weight configuration.
//
// Anonymous: score = rating*0.2 + price*0.1 + sentiment*0.1 +
// proximity*0.3 + dietary*0.2 + popularity*0.1 — maximum 1.0 with
// every component present, 0.5 with neither origin nor dietary
// request.
//
// Personal: dietary 0.3 + categories 0.3 + price ceiling 0.2 + 0.1
// per recent favorite, unclamped.
func DefaultCalibration() *Calibration {
	return &Calibration{
		Anonymous: Weights{
			Rating:     0.2,
			Price:      0.1,
			Sentiment:  0.1,
			Proximity:  0.3,
			Dietary:    0.2,
			Popularity: 0.1,
		},
		Personal: PersonalWeights{
			Dietary:       0.3,
			Categories:    0.3,
			PriceCeiling:  0.2,
			FavoriteBonus: 0.1,
			ClampPersonal: false,
		},
	}
}

// LoadCalibration loads ranking weights from a JSON calibration file.
// A missing or unreadable file returns the defaults along with the
// error so the caller can log and keep serving; partial files are
// merged over the defaults. An empty path returns defaults with no
// error.
func LoadCalibration(filePath string) (*Calibration, error) {
	cal := DefaultCalibration()

	if filePath == "" {
		return cal, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return cal, fmt.Errorf("read calibration file %s: %w", filePath, err)
	}

	var file calibrationFile
	if err := json.Unmarshal(data, &file); err != nil {
		return cal, fmt.Errorf("parse calibration file %s: %w", filePath, err)
	}

	mergeWeights(&cal.Anonymous, &file.Weights.Anonymous)
	mergePersonal(&cal.Personal, &file.Weights.Personal)

	slog.Info("loaded ranking calibration",
		"path", filePath,
		"version", file.Version,
		"clamp_personal", cal.Personal.ClampPersonal)
	return cal, nil
}

// mergeWeights overlays non-zero file values onto the defaults. A zero
// weight in the file is treated as "not set": disabling a component
// entirely is done by removing its inputs, not by zeroing a weight.
func mergeWeights(dst, src *Weights) {
	if src.Rating != 0 {
		dst.Rating = src.Rating
	}
	if src.Price != 0 {
		dst.Price = src.Price
	}
	if src.Sentiment != 0 {
		dst.Sentiment = src.Sentiment
	}
	if src.Proximity != 0 {
		dst.Proximity = src.Proximity
	}
	if src.Dietary != 0 {
		dst.Dietary = src.Dietary
	}
	if src.Popularity != 0 {
		dst.Popularity = src.Popularity
	}
}

// mergePersonal overlays non-zero file values onto the defaults.
// ClampPersonal is a plain boolean and copies through directly.
func mergePersonal(dst, src *PersonalWeights) {
	if src.Dietary != 0 {
		dst.Dietary = src.Dietary
	}
	if src.Categories != 0 {
		dst.Categories = src.Categories
	}
	if src.PriceCeiling != 0 {
		dst.PriceCeiling = src.PriceCeiling
	}
	if src.FavoriteBonus != 0 {
		dst.FavoriteBonus = src.FavoriteBonus
	}
	dst.ClampPersonal = src.ClampPersonal
}
