// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ocapi/internal/models"
)

func TestStartOfDay(t *testing.T) {
	// Early morning far east of UTC: the UTC clock still reads the previous
	// day, so an epoch-day truncation would pick the wrong date.
	loc := time.FixedZone("UTC+10", 10*3600)
	early := time.Date(2026, time.August, 29, 0, 30, 0, 0, loc)

	got := startOfDay(early)
	want := time.Date(2026, time.August, 29, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got.Location() != loc {
		t.Errorf("location: got %v, want %v", got.Location(), loc)
	}
	if got.Day() != 29 {
		t.Errorf("day: got %d, want 29", got.Day())
	}
}

// testCatalog creates a root and a child category for product link tests.
func testCatalog(t *testing.T, db *sql.DB) (rootID, childID int64) {
	t.Helper()
	cs := NewCategoryStore(db, nil)
	ctx := context.Background()

	rootID, err := cs.Create(ctx, &CategoryCreate{
		Description: models.CategoryDescription{Name: "Product Test Root"},
	})
	if err != nil {
		t.Fatalf("create root category: %v", err)
	}
	t.Cleanup(func() { cleanCategory(t, db, rootID) })

	childID, err = cs.Create(ctx, &CategoryCreate{
		Category:    CategoryScalars{ParentID: rootID},
		Description: models.CategoryDescription{Name: "Product Test Child"},
	})
	if err != nil {
		t.Fatalf("create child category: %v", err)
	}
	t.Cleanup(func() { cleanCategory(t, db, childID) })
	return rootID, childID
}

func strPtr(s string) *string { return &s }

func TestProductCreateDefaults(t *testing.T) {
	db := testDB(t)
	rootID, _ := testCatalog(t, db)
	s := NewProductStore(db, nil, rootID, 0)
	ctx := context.Background()

	p, err := s.Create(ctx, &ProductCreate{
		ProductFields: ProductFields{Model: strPtr("TEST-MODEL-1")},
		Descriptions:  []models.ProductDescription{{Name: "Test Product"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { cleanProduct(t, db, p.ProductID) })

	// Catalog defaults for everything the request omitted.
	if p.Quantity != 0 {
		t.Errorf("quantity: got %d, want 0", p.Quantity)
	}
	if p.StockStatusID != 7 {
		t.Errorf("stock_status_id: got %d, want 7", p.StockStatusID)
	}
	if p.ManufacturerID != 1 {
		t.Errorf("manufacturer_id: got %d, want 1", p.ManufacturerID)
	}
	if p.TaxClassID != 9 {
		t.Errorf("tax_class_id: got %d, want 9", p.TaxClassID)
	}
	if p.WeightClassID != 1 || p.LengthClassID != 1 {
		t.Errorf("measurement classes: got %d/%d, want 1/1", p.WeightClassID, p.LengthClassID)
	}
	if p.Minimum != 1 {
		t.Errorf("minimum: got %d, want 1", p.Minimum)
	}
	if !p.Shipping || !p.Subtract || !p.Status {
		t.Errorf("shipping/subtract/status: got %v/%v/%v, want all true", p.Shipping, p.Subtract, p.Status)
	}
	if p.DateAvailable == nil {
		t.Error("date_available should default to today")
	}
	if !p.Price.Equal(decimal.Zero) {
		t.Errorf("price: got %s, want 0", p.Price)
	}

	// No categories supplied: linked to the fallback category.
	if len(p.Categories) != 1 || p.Categories[0].CategoryID != rootID {
		t.Errorf("categories: got %+v, want fallback link to %d", p.Categories, rootID)
	}

	// Store fan-out always leaves at least the default store link.
	if len(p.Stores) == 0 {
		t.Error("stores: expected at least one store link")
	}
}

func TestProductCreateRequiresModel(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db, nil, 1, 0)

	_, err := s.Create(context.Background(), &ProductCreate{})
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "model" {
		t.Fatalf("create without model: got %v, want ValidationError on model", err)
	}
}

func TestProductCategoryAncestorExpansion(t *testing.T) {
	db := testDB(t)
	rootID, childID := testCatalog(t, db)
	s := NewProductStore(db, nil, rootID, 0)
	ctx := context.Background()

	p, err := s.Create(ctx, &ProductCreate{
		ProductFields: ProductFields{Model: strPtr("TEST-MODEL-2")},
		Categories:    []int64{childID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { cleanProduct(t, db, p.ProductID) })

	// Linking the child links every ancestor as well, deduplicated.
	linked := map[int64]bool{}
	for _, link := range p.Categories {
		if linked[link.CategoryID] {
			t.Errorf("duplicate category link %d", link.CategoryID)
		}
		linked[link.CategoryID] = true
	}
	if !linked[childID] || !linked[rootID] {
		t.Errorf("categories: got %+v, want both %d and ancestor %d", p.Categories, childID, rootID)
	}
}

func TestProductUpdatePartialAndCollections(t *testing.T) {
	db := testDB(t)
	rootID, childID := testCatalog(t, db)
	notifier := &recordingNotifier{}
	s := NewProductStore(db, notifier, rootID, 0)
	ctx := context.Background()

	price := decimal.RequireFromString("19.9900")
	p, err := s.Create(ctx, &ProductCreate{
		ProductFields: ProductFields{Model: strPtr("TEST-MODEL-3"), Price: &price},
		Descriptions:  []models.ProductDescription{{Name: "Before"}},
		Images:        []ProductImageInput{{Image: "a.png"}, {Image: "b.png"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { cleanProduct(t, db, p.ProductID) })

	// Positional sort order when none supplied.
	if len(p.Images) != 2 || p.Images[0].Image != "a.png" || p.Images[1].SortOrder != 1 {
		t.Fatalf("images: got %+v, want positional order", p.Images)
	}

	qty := 42
	updated, err := s.Update(ctx, p.ProductID, &ProductUpdate{
		ProductFields: ProductFields{Quantity: &qty},
		Categories:    &[]int64{childID},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Quantity != 42 {
		t.Errorf("quantity: got %d, want 42", updated.Quantity)
	}
	if updated.Model != "TEST-MODEL-3" {
		t.Errorf("model: got %q, want untouched TEST-MODEL-3", updated.Model)
	}
	if !updated.Price.Equal(price) {
		t.Errorf("price: got %s, want untouched %s", updated.Price, price)
	}
	// Untouched collections survive.
	if len(updated.Images) != 2 {
		t.Errorf("images after scalar update: got %d, want 2", len(updated.Images))
	}
	// Replaced collection got ancestor expansion.
	if len(updated.Categories) != 2 {
		t.Errorf("categories after replacement: got %+v, want child+root", updated.Categories)
	}

	if got := notifier.lastCall(); len(got) != len(productNamespaces) {
		t.Errorf("invalidated namespaces: got %v, want %v", got, productNamespaces)
	}
}

func TestProductUpdateMissing(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db, nil, 1, 0)

	_, err := s.Update(context.Background(), 999999999, &ProductUpdate{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: got %v, want ErrNotFound", err)
	}
}

func TestProductDeleteRemovesAllRows(t *testing.T) {
	db := testDB(t)
	rootID, _ := testCatalog(t, db)
	s := NewProductStore(db, nil, rootID, 0)
	ctx := context.Background()

	p, err := s.Create(ctx, &ProductCreate{
		ProductFields: ProductFields{Model: strPtr("TEST-MODEL-4")},
		Descriptions:  []models.ProductDescription{{Name: "Doomed"}},
		Specials: []ProductSpecialInput{
			{CustomerGroupID: 1, Price: decimal.RequireFromString("9.9900")},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.Delete(ctx, p.ProductID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for _, table := range productChildTables {
		var remaining int
		if err := db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE product_id = $1", p.ProductID).Scan(&remaining); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if remaining != 0 {
			t.Errorf("%s: %d rows left after delete", table, remaining)
		}
	}

	got, err := s.FindByID(ctx, p.ProductID)
	if err != nil {
		t.Fatalf("find after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("find after delete: got %+v, want nil", got)
	}
}

func TestProductDeleteMissing(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db, nil, 1, 0)

	if err := s.Delete(context.Background(), 999999999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete missing: got %v, want ErrNotFound", err)
	}
}
