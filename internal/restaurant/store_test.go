package restaurant

import (
	"context"
	"fmt"
	"testing"
)

func TestInMemoryStoreInsertAssignsIDs(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	a := sampleRestaurant()
	a.ID = 0
	if err := store.Insert(ctx, a); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if a.ID != 1 {
		t.Errorf("first id = %d, want 1", a.ID)
	}

	b := sampleRestaurant()
	b.ID = 0
	if err := store.Insert(ctx, b); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if b.ID != 2 {
		t.Errorf("second id = %d, want 2", b.ID)
	}
}

func TestInMemoryStoreGetByID(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	r := sampleRestaurant()
	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := store.GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Name != r.Name {
		t.Errorf("GetByID = %v", got)
	}

	missing, err := store.GetByID(ctx, 999)
	if err != nil {
		t.Fatalf("GetByID(999): %v", err)
	}
	if missing != nil {
		t.Error("absent id should return nil, nil")
	}
}

func TestInMemoryStoreReturnsCopies(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	r := sampleRestaurant()
	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, _ := store.GetByID(ctx, r.ID)
	got.Name = "mutated"
	got.Categories[0] = "mutated"

	again, _ := store.GetByID(ctx, r.ID)
	if again.Name == "mutated" || again.Categories[0] == "mutated" {
		t.Error("mutating a returned record must not affect the store")
	}
}

func TestInMemoryStoreSearchAppliesFilters(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	cheap := sampleRestaurant()
	cheap.ID = 0
	cheap.PriceLevel = 1
	expensive := sampleRestaurant()
	expensive.ID = 0
	expensive.PriceLevel = 4
	for _, r := range []*Restaurant{cheap, expensive} {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	results, err := store.Search(ctx, SearchFilters{MaxPrice: ptr(2)})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].PriceLevel != 1 {
		t.Errorf("results = %v, want only the cheap restaurant", results)
	}
}

func TestInMemoryStoreSearchCapsAtMaxCandidates(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	for i := 0; i < MaxCandidates+20; i++ {
		r := sampleRestaurant()
		r.ID = 0
		r.Name = fmt.Sprintf("Restaurant %d", i)
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	results, err := store.Search(ctx, SearchFilters{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != MaxCandidates {
		t.Fatalf("len(results) = %d, want %d", len(results), MaxCandidates)
	}

	// Truncation keeps ascending ids, deterministically.
	for i, r := range results {
		if r.ID != int64(i+1) {
			t.Fatalf("result %d has id %d, want %d", i, r.ID, i+1)
		}
	}
}

func TestInMemoryStoreSearchEmptyResult(t *testing.T) {
	store := NewInMemoryStore()

	results, err := store.Search(context.Background(), SearchFilters{Cuisine: ptr("Thai")})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want empty", results)
	}
}
