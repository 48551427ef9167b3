package ranking

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCalibration(t *testing.T) {
	cal := DefaultCalibration()

	sum := cal.Anonymous.Rating + cal.Anonymous.Price + cal.Anonymous.Sentiment +
		cal.Anonymous.Proximity + cal.Anonymous.Dietary + cal.Anonymous.Popularity
	if !almostEqual(sum, 1.0) {
		t.Errorf("anonymous weights sum = %f, want 1.0", sum)
	}
	if cal.Personal.ClampPersonal {
		t.Error("clamp_personal should default to off")
	}
}

func TestLoadCalibrationEmptyPath(t *testing.T) {
	cal, err := LoadCalibration("")
	if err != nil {
		t.Fatalf("LoadCalibration(\"\") error = %v", err)
	}
	if cal.Anonymous.Proximity != 0.3 {
		t.Errorf("proximity = %f, want default 0.3", cal.Anonymous.Proximity)
	}
}

func TestLoadCalibrationMissingFileReturnsDefaults(t *testing.T) {
	cal, err := LoadCalibration("/nonexistent/calibration.json")
	if err == nil {
		t.Error("expected error for missing file")
	}
	if cal == nil || cal.Anonymous.Rating != 0.2 {
		t.Error("missing file should still return usable defaults")
	}
}

func TestLoadCalibrationPartialFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cal.json")
	content := `{
		"version": "test",
		"weights": {
			"anonymous": {"proximity": 0.5},
			"personal": {"favorite_bonus": 0.05, "clamp_personal": true}
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cal, err := LoadCalibration(path)
	if err != nil {
		t.Fatalf("LoadCalibration: %v", err)
	}
	if cal.Anonymous.Proximity != 0.5 {
		t.Errorf("proximity = %f, want overridden 0.5", cal.Anonymous.Proximity)
	}
	if cal.Anonymous.Rating != 0.2 {
		t.Errorf("rating = %f, want default 0.2 preserved", cal.Anonymous.Rating)
	}
	if cal.Personal.FavoriteBonus != 0.05 {
		t.Errorf("favorite_bonus = %f, want 0.05", cal.Personal.FavoriteBonus)
	}
	if !cal.Personal.ClampPersonal {
		t.Error("clamp_personal should be switched on by the file")
	}
}

func TestLoadCalibrationMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cal.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cal, err := LoadCalibration(path)
	if err == nil {
		t.Error("expected parse error")
	}
	if cal == nil || cal.Anonymous.Rating != 0.2 {
		t.Error("malformed file should still return usable defaults")
	}
}
