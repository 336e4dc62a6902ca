package store

import (
	"errors"
	"testing"

	"github.com/madplan/kurv/internal/database"
	"github.com/madplan/kurv/internal/model"
)

func setupShoppingTestDB(t *testing.T) *ShoppingStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// An in-memory database exists per connection; keep the pool at one.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return NewShoppingStore(db)
}

func TestGetOrCreateActive(t *testing.T) {
	ss := setupShoppingTestDB(t)

	list, err := ss.GetOrCreateActive(nil)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if !list.IsActive {
		t.Error("new list should be active")
	}
	if list.Status != model.ListStatusActive {
		t.Errorf("status = %q, want active", list.Status)
	}

	again, err := ss.GetOrCreateActive(nil)
	if err != nil {
		t.Fatalf("get or create again: %v", err)
	}
	if again.ID != list.ID {
		t.Errorf("second call created a new list: %d != %d", again.ID, list.ID)
	}
}

func TestStartFreshArchivesOldList(t *testing.T) {
	ss := setupShoppingTestDB(t)

	old, _ := ss.GetOrCreateActive(nil)
	if _, _, err := ss.AddItem(old.ID, "Milk", "", "", "", nil, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}

	fresh, err := ss.StartFresh(nil)
	if err != nil {
		t.Fatalf("start fresh: %v", err)
	}
	if fresh.ID == old.ID {
		t.Fatal("expected a new list")
	}

	archived, _ := ss.GetListByID(old.ID)
	if archived.IsActive {
		t.Error("old list should be inactive")
	}
	if archived.Status != model.ListStatusArchived {
		t.Errorf("old list status = %q, want archived", archived.Status)
	}

	// The archived list keeps its items; the fresh one starts empty.
	oldItems, _ := ss.ListItems(old.ID, true)
	if len(oldItems) != 1 {
		t.Errorf("archived list items = %d, want 1", len(oldItems))
	}
	freshItems, _ := ss.ListItems(fresh.ID, true)
	if len(freshItems) != 0 {
		t.Errorf("fresh list items = %d, want 0", len(freshItems))
	}
}

func TestAddItemDefaults(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)

	id, merged, err := ss.AddItem(list.ID, "Milk", "", "", "", nil, nil)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if merged {
		t.Error("first add should not merge")
	}

	item, _ := ss.GetItemByID(id)
	if item.Quantity != "1" {
		t.Errorf("quantity = %q, want 1", item.Quantity)
	}
	if item.Category != "Dairy" {
		t.Errorf("category = %q, want Dairy (classified)", item.Category)
	}
	if item.Source != model.SourceManual {
		t.Errorf("source = %q, want manual", item.Source)
	}
	if item.Checked {
		t.Error("new item should be unchecked")
	}
}

func TestAddItemEmptyName(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)

	if _, _, err := ss.AddItem(list.ID, "   ", "1", "", "", nil, nil); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestAddItemMergesCaseInsensitive(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)

	id1, _, err := ss.AddItem(list.ID, "Milk", "2", "", "", nil, nil)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	id2, merged, err := ss.AddItem(list.ID, "milk", "3", "", "", nil, nil)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if !merged {
		t.Error("expected merge")
	}
	if id2 != id1 {
		t.Errorf("merge returned id %d, want existing id %d", id2, id1)
	}

	items, _ := ss.ListItems(list.ID, true)
	if len(items) != 1 {
		t.Fatalf("expected 1 row after merge, got %d", len(items))
	}
	if items[0].Quantity != "5" {
		t.Errorf("quantity = %q, want 5", items[0].Quantity)
	}
	// The original spelling survives the merge.
	if items[0].ItemName != "Milk" {
		t.Errorf("name = %q, want Milk", items[0].ItemName)
	}
}

func TestAddItemMergeUnits(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)

	ss.AddItem(list.ID, "Flour", "500 g", "", "", nil, nil)
	id, merged, err := ss.AddItem(list.ID, "flour", "250 g", "", "", nil, nil)
	if err != nil || !merged {
		t.Fatalf("merge failed: merged=%v err=%v", merged, err)
	}

	item, _ := ss.GetItemByID(id)
	if item.Quantity != "750 g" {
		t.Errorf("quantity = %q, want %q", item.Quantity, "750 g")
	}
}

func TestAddItemMergeWhitespaceQuantity(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)

	// Callers may hand over an untrimmed quantity; a later merge against the
	// stored blank must still combine, counting it as one.
	ss.AddItem(list.ID, "Milk", "  ", "", "", nil, nil)
	id, merged, err := ss.AddItem(list.ID, "milk", "2", "", "", nil, nil)
	if err != nil || !merged {
		t.Fatalf("merge failed: merged=%v err=%v", merged, err)
	}

	item, _ := ss.GetItemByID(id)
	if item.Quantity != "3" {
		t.Errorf("quantity = %q, want 3", item.Quantity)
	}
}

func TestAddItemMergeNonNumericFallback(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)

	ss.AddItem(list.ID, "Basil", "a bunch", "", "", nil, nil)
	id, _, _ := ss.AddItem(list.ID, "basil", "2", "", "", nil, nil)

	item, _ := ss.GetItemByID(id)
	if item.Quantity != "a bunch + 2" {
		t.Errorf("quantity = %q, want %q", item.Quantity, "a bunch + 2")
	}
}

func TestAddItemCheckedExemptFromMerge(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)

	id1, _, _ := ss.AddItem(list.ID, "Milk", "1", "", "", nil, nil)
	if _, err := ss.ToggleChecked(id1); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	id2, merged, err := ss.AddItem(list.ID, "milk", "1", "", "", nil, nil)
	if err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if merged {
		t.Error("checked item must not absorb a new add")
	}
	if id2 == id1 {
		t.Error("expected a fresh row")
	}

	items, _ := ss.ListItems(list.ID, true)
	if len(items) != 2 {
		t.Errorf("expected 2 rows, got %d", len(items))
	}
}

func TestAddItemMergePriceOverwrite(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)

	oldPrice := 10.0
	id, _, _ := ss.AddItem(list.ID, "Butter", "1", "", "", nil, &oldPrice)

	// Merge without a price keeps the old estimate.
	ss.AddItem(list.ID, "butter", "1", "", "", nil, nil)
	item, _ := ss.GetItemByID(id)
	if item.PriceEstimate == nil || *item.PriceEstimate != 10.0 {
		t.Errorf("price = %v, want 10.0 preserved", item.PriceEstimate)
	}

	// Merge with a price replaces it.
	newPrice := 12.5
	ss.AddItem(list.ID, "butter", "1", "", "", nil, &newPrice)
	item, _ = ss.GetItemByID(id)
	if item.PriceEstimate == nil || *item.PriceEstimate != 12.5 {
		t.Errorf("price = %v, want 12.5", item.PriceEstimate)
	}
}

func TestAddItemsBulkIdempotentRowCount(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)

	batch := []model.CandidateItem{
		{ItemName: "Tomatoes", Quantity: "2", Category: "Produce"},
		{ItemName: "Milk", Quantity: "1"},
		{ItemName: "Bread"},
	}

	n, err := ss.AddItemsBulk(list.ID, batch)
	if err != nil {
		t.Fatalf("first bulk add: %v", err)
	}
	if n != 3 {
		t.Errorf("first bulk count = %d, want 3", n)
	}

	n, err = ss.AddItemsBulk(list.ID, batch)
	if err != nil {
		t.Fatalf("second bulk add: %v", err)
	}
	if n != 3 {
		t.Errorf("second bulk count = %d, want 3", n)
	}

	// Re-importing the same batch merges instead of duplicating.
	items, _ := ss.ListItems(list.ID, true)
	if len(items) != 3 {
		t.Errorf("expected 3 rows after re-import, got %d", len(items))
	}
}

func TestAddItemsBulkDefaultSource(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)

	ss.AddItemsBulk(list.ID, []model.CandidateItem{{ItemName: "Rice"}})
	items, _ := ss.ListItems(list.ID, true)
	if len(items) != 1 || items[0].Source != model.SourceBulk {
		t.Errorf("source = %q, want bulk", items[0].Source)
	}
}

func TestToggleChecked(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)
	id, _, _ := ss.AddItem(list.ID, "Milk", "1", "", "", nil, nil)

	checked, err := ss.ToggleChecked(id)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !checked {
		t.Error("first toggle should check the item")
	}

	checked, err = ss.ToggleChecked(id)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if checked {
		t.Error("second toggle should uncheck the item")
	}
}

func TestToggleCheckedNotFound(t *testing.T) {
	ss := setupShoppingTestDB(t)

	_, err := ss.ToggleChecked(9999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveItem(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)
	id, _, _ := ss.AddItem(list.ID, "Milk", "1", "", "", nil, nil)

	deleted, err := ss.RemoveItem(id)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !deleted {
		t.Error("expected deleted = true")
	}

	deleted, err = ss.RemoveItem(id)
	if err != nil {
		t.Fatalf("remove again: %v", err)
	}
	if deleted {
		t.Error("expected deleted = false for missing item")
	}
}

func TestClearCheckedOnly(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)

	id1, _, _ := ss.AddItem(list.ID, "Milk", "1", "", "", nil, nil)
	ss.AddItem(list.ID, "Bread", "1", "", "", nil, nil)
	ss.ToggleChecked(id1)

	removed, err := ss.Clear(list.ID, true)
	if err != nil {
		t.Fatalf("clear checked: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	items, _ := ss.ListItems(list.ID, true)
	if len(items) != 1 || items[0].ItemName != "Bread" {
		t.Errorf("expected only Bread to survive, got %+v", items)
	}
}

func TestClearAllKeepsList(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)

	ss.AddItem(list.ID, "Milk", "1", "", "", nil, nil)
	ss.AddItem(list.ID, "Bread", "1", "", "", nil, nil)

	removed, err := ss.Clear(list.ID, false)
	if err != nil {
		t.Fatalf("clear all: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	got, _ := ss.GetListByID(list.ID)
	if got == nil || !got.IsActive {
		t.Error("clearing items must not touch the list row")
	}
}

func TestStats(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)

	p1, p2 := 10.0, 5.5
	id1, _, _ := ss.AddItem(list.ID, "Milk", "1", "", "", nil, &p1)
	ss.AddItem(list.ID, "Bread", "1", "", "", nil, &p2)
	ss.AddItem(list.ID, "Salt", "1", "", "", nil, nil)
	ss.ToggleChecked(id1)

	stats, err := ss.Stats(list.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("total = %d, want 3", stats.Total)
	}
	if stats.Checked != 1 {
		t.Errorf("checked = %d, want 1", stats.Checked)
	}
	if stats.Unchecked != 2 {
		t.Errorf("unchecked = %d, want 2", stats.Unchecked)
	}
	// The estimate includes the checked item and skips the nil price.
	if stats.TotalEstimate != 15.5 {
		t.Errorf("total estimate = %v, want 15.5", stats.TotalEstimate)
	}
}

func TestCountUnchecked(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)

	id1, _, _ := ss.AddItem(list.ID, "Milk", "1", "", "", nil, nil)
	ss.AddItem(list.ID, "Bread", "1", "", "", nil, nil)
	ss.ToggleChecked(id1)

	count, err := ss.CountUnchecked(list.ID)
	if err != nil {
		t.Fatalf("count unchecked: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestListItemsExcludeChecked(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)

	id1, _, _ := ss.AddItem(list.ID, "Milk", "1", "", "", nil, nil)
	ss.AddItem(list.ID, "Bread", "1", "", "", nil, nil)
	ss.ToggleChecked(id1)

	items, err := ss.ListItems(list.ID, false)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 || items[0].ItemName != "Bread" {
		t.Errorf("expected unchecked Bread only, got %+v", items)
	}
}

func TestGroupByCategoryOrder(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)

	ss.AddItem(list.ID, "Coffee", "1", "Beverages", "", nil, nil)
	ss.AddItem(list.ID, "Milk", "1", "Dairy", "", nil, nil)
	ss.AddItem(list.ID, "Tomatoes", "1", "Produce", "", nil, nil)
	ss.AddItem(list.ID, "Batteries", "1", "Hardware", "", nil, nil)

	groups, err := ss.GroupByCategory(list.ID, true)
	if err != nil {
		t.Fatalf("group by category: %v", err)
	}

	want := []string{"Produce", "Dairy", "Beverages", "Hardware"}
	if len(groups) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(groups))
	}
	for i, cat := range want {
		if groups[i].Category != cat {
			t.Errorf("groups[%d] = %q, want %q", i, groups[i].Category, cat)
		}
	}
}

func TestDeleteListCascadesItems(t *testing.T) {
	ss := setupShoppingTestDB(t)
	list, _ := ss.GetOrCreateActive(nil)
	id, _, _ := ss.AddItem(list.ID, "Milk", "1", "", "", nil, nil)

	if _, err := ss.db.Exec(`DELETE FROM shopping_lists WHERE id = ?`, list.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}

	item, err := ss.GetItemByID(id)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if item != nil {
		t.Error("items should cascade with their list")
	}
}
