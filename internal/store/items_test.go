package store

import (
	"context"
	"testing"

	"github.com/erazemk/omara/internal/db"
	"github.com/erazemk/omara/internal/model"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user, _ := CreateUser(ctx, database, "ana@example.com", "hash")

	price := 29.5
	item, err := CreateItem(ctx, database, "", user.ID, "/api/blobs/a.jpg", model.ItemInput{
		Category: "Tops",
		Brand:    "Acme",
		Price:    &price,
		Tags:     []string{"summer", "linen"},
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Category != "Tops" {
		t.Errorf("expected category 'Tops', got %q", item.Category)
	}
	if item.Status != model.ItemStatusPending {
		t.Errorf("expected status %q, got %q", model.ItemStatusPending, item.Status)
	}
	if item.Price == nil || *item.Price != 29.5 {
		t.Errorf("expected price 29.5, got %v", item.Price)
	}
	if len(item.Tags) != 2 {
		t.Errorf("expected 2 tags, got %v", item.Tags)
	}

	missing, err := GetItem(ctx, database, "nope")
	if err != nil || missing != nil {
		t.Errorf("expected nil for missing item, got %v, %v", missing, err)
	}
}

func TestListItemsByUserNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ana, _ := CreateUser(ctx, database, "ana@example.com", "hash")
	bob, _ := CreateUser(ctx, database, "bob@example.com", "hash")

	first, _ := CreateItem(ctx, database, "", ana.ID, "/1", model.ItemInput{Category: "Tops"})
	second, _ := CreateItem(ctx, database, "", ana.ID, "/2", model.ItemInput{Category: "Shoes"})
	CreateItem(ctx, database, "", bob.ID, "/3", model.ItemInput{Category: "Bags"})

	items, err := ListItemsByUser(ctx, database, ana.ID)
	if err != nil {
		t.Fatalf("ListItemsByUser: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Errorf("expected newest first, got %s, %s", items[0].ID, items[1].ID)
	}
}

func TestUpdateItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user, _ := CreateUser(ctx, database, "ana@example.com", "hash")
	item, _ := CreateItem(ctx, database, "", user.ID, "/1", model.ItemInput{Category: "Tops", Brand: "Acme"})

	if err := UpdateItem(ctx, database, item.ID, model.ItemInput{Category: "Outerwear", Notes: "warm"}); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Category != "Outerwear" || got.Notes != "warm" || got.Brand != "" {
		t.Errorf("unexpected item after update: %+v", got)
	}
	if got.Price != nil {
		t.Errorf("expected nil price, got %v", *got.Price)
	}
}

func TestItemProcessingLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user, _ := CreateUser(ctx, database, "ana@example.com", "hash")
	item, _ := CreateItem(ctx, database, "", user.ID, "/orig", model.ItemInput{Category: "Tops"})

	ok, err := SetItemProcessed(ctx, database, item.ID, "/orig", "/processed")
	if err != nil || !ok {
		t.Fatalf("SetItemProcessed: %v, %v", ok, err)
	}
	got, _ := GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusProcessed || got.ProcessedImageURL != "/processed" {
		t.Errorf("unexpected item %+v", got)
	}

	if err := ReplaceItemImage(ctx, database, item.ID, "/orig2"); err != nil {
		t.Fatalf("ReplaceItemImage: %v", err)
	}
	got, _ = GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusPending || got.ProcessedImageURL != "" || got.OriginalImageURL != "/orig2" {
		t.Errorf("expected reset item, got %+v", got)
	}

	// A result for the replaced image is discarded.
	ok, err = SetItemProcessed(ctx, database, item.ID, "/orig", "/stale")
	if err != nil {
		t.Fatalf("SetItemProcessed: %v", err)
	}
	if ok {
		t.Error("expected stale processing result to be ignored")
	}

	pending, _ := ListItemsByStatus(ctx, database, model.ItemStatusPending)
	if len(pending) != 1 {
		t.Errorf("expected 1 pending item, got %d", len(pending))
	}

	// A failure on the replaced image leaves the new one pending.
	ok, err = SetItemFailed(ctx, database, item.ID, "/orig")
	if err != nil {
		t.Fatalf("SetItemFailed: %v", err)
	}
	if ok {
		t.Error("expected stale failure to be ignored")
	}
	got, _ = GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusPending {
		t.Errorf("expected pending status, got %q", got.Status)
	}

	ok, err = SetItemFailed(ctx, database, item.ID, "/orig2")
	if err != nil || !ok {
		t.Fatalf("SetItemFailed: %v, %v", ok, err)
	}
	got, _ = GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusError {
		t.Errorf("expected error status, got %q", got.Status)
	}
}

func TestDeleteItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user, _ := CreateUser(ctx, database, "ana@example.com", "hash")
	item, _ := CreateItem(ctx, database, "", user.ID, "/1", model.ItemInput{Category: "Tops"})

	if err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	got, _ := GetItem(ctx, database, item.ID)
	if got != nil {
		t.Error("expected item to be gone")
	}
}
