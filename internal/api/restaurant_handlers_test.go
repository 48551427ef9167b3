package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tablescout/tablescout/internal/restaurant"
)

func TestHandleRestaurantByID(t *testing.T) {
	store := restaurant.NewInMemoryStore()
	rec1 := &restaurant.Restaurant{
		Name: "Luigi's", Rating: 4.5, PriceLevel: 2,
		Categories: []string{"Italian"}, Lat: 40.7, Lng: -74.0,
	}
	if err := store.Insert(context.Background(), rec1); err != nil {
		t.Fatalf("insert: %v", err)
	}

	h := NewRestaurantHandlers(store, nil)

	t.Run("found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.HandleRestaurantByID(rec, httptest.NewRequest(http.MethodGet, "/restaurants/1", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var got restaurant.Restaurant
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Name != "Luigi's" {
			t.Errorf("name = %q, want Luigi's", got.Name)
		}
	})

	t.Run("not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.HandleRestaurantByID(rec, httptest.NewRequest(http.MethodGet, "/restaurants/999", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		var errResp ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if errResp.Error.Code != ErrCodeRestaurantNotFound {
			t.Errorf("code = %q, want %q", errResp.Error.Code, ErrCodeRestaurantNotFound)
		}
	})

	t.Run("non-numeric id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.HandleRestaurantByID(rec, httptest.NewRequest(http.MethodGet, "/restaurants/abc", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestCreateRestaurant(t *testing.T) {
	store := restaurant.NewInMemoryStore()
	h := NewRestaurantHandlers(store, nil)

	body := `{
		"name": "Green Bowl",
		"rating": 4.2,
		"total_reviews": 50,
		"price_level": 2,
		"categories": ["Vegan"],
		"lat": 40.71,
		"lng": -74.0,
		"sentiment_score": 0.5,
		"dietary_options": ["vegan", "gluten-free"]
	}`
	rec := httptest.NewRecorder()
	h.CreateRestaurant(rec, httptest.NewRequest(http.MethodPost, "/restaurants", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var got restaurant.Restaurant
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID == 0 {
		t.Error("expected assigned id")
	}

	stored, err := store.GetByID(context.Background(), got.ID)
	if err != nil || stored == nil {
		t.Fatalf("GetByID(%d) = %v, %v", got.ID, stored, err)
	}
}

func TestCreateRestaurantValidation(t *testing.T) {
	store := restaurant.NewInMemoryStore()
	h := NewRestaurantHandlers(store, nil)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"rating":4,"price_level":2,"categories":["a"],"lat":0,"lng":0}`},
		{"rating too high", `{"name":"x","rating":6,"price_level":2,"categories":["a"],"lat":0,"lng":0}`},
		{"price level out of range", `{"name":"x","rating":4,"price_level":5,"categories":["a"],"lat":0,"lng":0}`},
		{"no categories", `{"name":"x","rating":4,"price_level":2,"lat":0,"lng":0}`},
		{"bad latitude", `{"name":"x","rating":4,"price_level":2,"categories":["a"],"lat":95,"lng":0}`},
		{"sentiment out of range", `{"name":"x","rating":4,"price_level":2,"categories":["a"],"lat":0,"lng":0,"sentiment_score":2}`},
		{"malformed json", `{"name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.CreateRestaurant(rec, httptest.NewRequest(http.MethodPost, "/restaurants", strings.NewReader(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}
