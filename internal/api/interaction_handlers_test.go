package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tablescout/tablescout/internal/middleware"
	"github.com/tablescout/tablescout/internal/user"
)

func TestRecordInteraction(t *testing.T) {
	store := user.NewInMemoryInteractionStore()
	h := NewInteractionHandlers(store, nil)

	body := `{"user_id": "u1", "restaurant_id": 7, "kind": "favorite"}`
	rec := httptest.NewRecorder()
	h.Record(rec, httptest.NewRequest(http.MethodPost, "/interactions", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var got user.Interaction
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID == "" {
		t.Error("expected assigned id")
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected assigned timestamp")
	}

	recent, err := store.RecentFor(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("RecentFor: %v", err)
	}
	if len(recent) != 1 || recent[0].Kind != user.InteractionFavorite {
		t.Errorf("stored interactions = %v, want one favorite", recent)
	}
}

func TestRecordInteractionAuthOverridesBody(t *testing.T) {
	store := user.NewInMemoryInteractionStore()
	h := NewInteractionHandlers(store, nil)

	body := `{"user_id": "spoofed", "restaurant_id": 7, "kind": "view"}`
	r := httptest.NewRequest(http.MethodPost, "/interactions", strings.NewReader(body))
	r = r.WithContext(middleware.SetUserID(r.Context(), "real-user"))

	rec := httptest.NewRecorder()
	h.Record(rec, r)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	recent, _ := store.RecentFor(context.Background(), "real-user", 10)
	if len(recent) != 1 {
		t.Error("interaction should be recorded under the authenticated user")
	}
}

func TestRecordInteractionValidation(t *testing.T) {
	h := NewInteractionHandlers(user.NewInMemoryInteractionStore(), nil)

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"missing user", `{"restaurant_id": 7, "kind": "view"}`, ErrCodeValidation},
		{"missing restaurant", `{"user_id": "u1", "kind": "view"}`, ErrCodeValidation},
		{"unknown kind", `{"user_id": "u1", "restaurant_id": 7, "kind": "teleport"}`, ErrCodeInvalidInteraction},
		{"malformed json", `{"user_id"`, ErrCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Record(rec, httptest.NewRequest(http.MethodPost, "/interactions", strings.NewReader(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var errResp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if errResp.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", errResp.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestRecordInteractionMethodNotAllowed(t *testing.T) {
	h := NewInteractionHandlers(user.NewInMemoryInteractionStore(), nil)

	rec := httptest.NewRecorder()
	h.Record(rec, httptest.NewRequest(http.MethodGet, "/interactions", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
