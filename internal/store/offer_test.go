package store

import (
	"testing"

	"github.com/madplan/kurv/internal/database"
	"github.com/madplan/kurv/internal/model"
)

func setupOfferTestDB(t *testing.T) *OfferStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return NewOfferStore(db)
}

func TestOfferUpsert(t *testing.T) {
	os := setupOfferTestDB(t)

	err := os.Upsert(model.Offer{
		ProductID:      "p-1",
		Name:           "Smør",
		Department:     "Mejeri",
		PriceNumeric:   18.95,
		NormalPrice:    24.95,
		SavingsPercent: 24,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := os.GetByProductID("p-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected offer, got nil")
	}
	if got.Name != "Smør" || got.PriceNumeric != 18.95 {
		t.Errorf("got %+v", got)
	}

	// Upserting the same product id replaces, not duplicates.
	if err := os.Upsert(model.Offer{ProductID: "p-1", Name: "Smør", PriceNumeric: 15.00}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, _ = os.GetByProductID("p-1")
	if got.PriceNumeric != 15.00 {
		t.Errorf("price = %v, want 15.00 after replace", got.PriceNumeric)
	}

	offers, _ := os.List()
	if len(offers) != 1 {
		t.Errorf("expected 1 offer, got %d", len(offers))
	}
}

func TestOfferGetMissing(t *testing.T) {
	os := setupOfferTestDB(t)

	got, err := os.GetByProductID("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing offer, got %+v", got)
	}
}

func TestOfferUpsertBatchAndListOrder(t *testing.T) {
	os := setupOfferTestDB(t)

	batch := []model.Offer{
		{ProductID: "a", Name: "Bananer", SavingsPercent: 10},
		{ProductID: "b", Name: "Laks", SavingsPercent: 40},
		{ProductID: "c", Name: "Kaffe", SavingsPercent: 40},
	}
	n, err := os.UpsertBatch(batch)
	if err != nil {
		t.Fatalf("upsert batch: %v", err)
	}
	if n != 3 {
		t.Errorf("stored = %d, want 3", n)
	}

	offers, err := os.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Best savings first, ties broken by name.
	want := []string{"Kaffe", "Laks", "Bananer"}
	for i, name := range want {
		if offers[i].Name != name {
			t.Errorf("offers[%d] = %q, want %q", i, offers[i].Name, name)
		}
	}
}
