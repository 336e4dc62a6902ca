package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/madplan/kurv/internal/category"
	"github.com/madplan/kurv/internal/model"
	"github.com/madplan/kurv/internal/quantity"
)

// ErrNotFound is returned when an operation references a list or item id
// that does not exist.
var ErrNotFound = errors.New("not found")

type ShoppingStore struct {
	db *sql.DB
}

func NewShoppingStore(db *sql.DB) *ShoppingStore {
	return &ShoppingStore{db: db}
}

// --- List methods ---

func scanList(scanner interface{ Scan(...any) error }) (*model.ShoppingList, error) {
	var l model.ShoppingList
	var householdID sql.NullInt64
	var isActive int

	err := scanner.Scan(&l.ID, &householdID, &l.Name, &isActive, &l.Status, &l.CreatedAt)
	if err != nil {
		return nil, err
	}

	l.IsActive = isActive != 0
	if householdID.Valid {
		l.HouseholdID = &householdID.Int64
	}
	return &l, nil
}

const listCols = `id, household_id, name, is_active, status, created_at`

// GetActiveList returns the active list for the owner scope, or nil if none
// exists. A nil householdID is the legacy single-user mode and matches any
// owner.
func (s *ShoppingStore) GetActiveList(householdID *int64) (*model.ShoppingList, error) {
	var row *sql.Row
	if householdID != nil {
		row = s.db.QueryRow(
			`SELECT `+listCols+` FROM shopping_lists WHERE is_active = 1 AND household_id = ? LIMIT 1`,
			*householdID,
		)
	} else {
		row = s.db.QueryRow(`SELECT ` + listCols + ` FROM shopping_lists WHERE is_active = 1 LIMIT 1`)
	}

	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active list: %w", err)
	}
	return l, nil
}

// GetOrCreateActive returns the single active list for the owner, creating
// one with a date-derived default name if none exists.
func (s *ShoppingStore) GetOrCreateActive(householdID *int64) (*model.ShoppingList, error) {
	list, err := s.GetActiveList(householdID)
	if err != nil {
		return nil, err
	}
	if list != nil {
		return list, nil
	}

	name := "Shopping List " + time.Now().UTC().Format("2006-01-02")
	return s.CreateList(name, householdID)
}

// CreateList inserts a new active list.
func (s *ShoppingStore) CreateList(name string, householdID *int64) (*model.ShoppingList, error) {
	var hID sql.NullInt64
	if householdID != nil {
		hID = sql.NullInt64{Int64: *householdID, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO shopping_lists (household_id, name, is_active, status) VALUES (?, ?, 1, ?)`,
		hID, name, model.ListStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetListByID(id)
}

func (s *ShoppingStore) GetListByID(id int64) (*model.ShoppingList, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM shopping_lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

// ArchiveActive deactivates the owner's active list. Lists only ever move
// from active to archived; they are never deleted by normal flow.
func (s *ShoppingStore) ArchiveActive(householdID *int64) (int64, error) {
	var result sql.Result
	var err error
	if householdID != nil {
		result, err = s.db.Exec(
			`UPDATE shopping_lists SET is_active = 0, status = ? WHERE is_active = 1 AND household_id = ?`,
			model.ListStatusArchived, *householdID,
		)
	} else {
		result, err = s.db.Exec(
			`UPDATE shopping_lists SET is_active = 0, status = ? WHERE is_active = 1`,
			model.ListStatusArchived,
		)
	}
	if err != nil {
		return 0, fmt.Errorf("archive active list: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

// StartFresh archives the current active list and creates a new one.
func (s *ShoppingStore) StartFresh(householdID *int64) (*model.ShoppingList, error) {
	if _, err := s.ArchiveActive(householdID); err != nil {
		return nil, err
	}
	name := "Shopping List " + time.Now().UTC().Format("2006-01-02")
	return s.CreateList(name, householdID)
}

// --- Item methods ---

func scanItem(scanner interface{ Scan(...any) error }) (*model.ShoppingListItem, error) {
	var item model.ShoppingListItem
	var sourceID sql.NullString
	var price sql.NullFloat64
	var checked int

	err := scanner.Scan(
		&item.ID, &item.ListID, &item.ItemName, &item.Quantity, &item.Category,
		&checked, &item.Source, &sourceID, &price, &item.AddedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Checked = checked != 0
	if sourceID.Valid {
		item.SourceID = &sourceID.String
	}
	if price.Valid {
		item.PriceEstimate = &price.Float64
	}
	return &item, nil
}

const itemCols = `id, list_id, item_name, quantity, category, checked, source, source_id, price_estimate, added_at`

func (s *ShoppingStore) GetItemByID(id int64) (*model.ShoppingListItem, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM shopping_list_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// AddItem adds an item to a list, merging into an existing unchecked item
// with the same case-insensitive name instead of duplicating it. Checked
// items are exempt so something already bought can be re-added. On a merge
// the quantities are combined, a provided price estimate replaces the old
// one, and the existing item's id is returned with merged = true.
//
// An empty category is resolved via the classifier; an empty source is
// recorded as manual.
func (s *ShoppingStore) AddItem(listID int64, name, qty, cat, source string, sourceID *string, price *float64) (int64, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false, fmt.Errorf("add item: empty name")
	}
	if cat == "" {
		cat = category.Classify(name, "")
	}
	if source == "" {
		source = model.SourceManual
	}

	var existingID int64
	var existingQty string
	err := s.db.QueryRow(
		`SELECT id, quantity FROM shopping_list_items
		 WHERE list_id = ? AND checked = 0 AND lower(item_name) = lower(?) LIMIT 1`,
		listID, name,
	).Scan(&existingID, &existingQty)
	if err != nil && err != sql.ErrNoRows {
		return 0, false, fmt.Errorf("find existing item: %w", err)
	}

	if err == nil {
		merged := quantity.Merge(existingQty, qty)
		if price != nil {
			_, err = s.db.Exec(
				`UPDATE shopping_list_items SET quantity = ?, price_estimate = ? WHERE id = ?`,
				merged, *price, existingID,
			)
		} else {
			_, err = s.db.Exec(
				`UPDATE shopping_list_items SET quantity = ? WHERE id = ?`,
				merged, existingID,
			)
		}
		if err != nil {
			return 0, false, fmt.Errorf("merge item: %w", err)
		}
		return existingID, true, nil
	}

	if qty == "" {
		qty = "1"
	}
	var sID sql.NullString
	if sourceID != nil {
		sID = sql.NullString{String: *sourceID, Valid: true}
	}
	var p sql.NullFloat64
	if price != nil {
		p = sql.NullFloat64{Float64: *price, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO shopping_list_items (list_id, item_name, quantity, category, source, source_id, price_estimate)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		listID, name, qty, cat, source, sID, p,
	)
	if err != nil {
		return 0, false, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("last insert id: %w", err)
	}
	return id, false, nil
}

// AddItemsBulk applies AddItem semantics to a whole extractor or offer
// batch. Every candidate counts once whether it merged or inserted, so
// re-importing an identical batch leaves the row count unchanged.
func (s *ShoppingStore) AddItemsBulk(listID int64, candidates []model.CandidateItem) (int, error) {
	count := 0
	for _, c := range candidates {
		source := c.Source
		if source == "" {
			source = model.SourceBulk
		}
		if _, _, err := s.AddItem(listID, c.ItemName, c.Quantity, c.Category, source, c.SourceID, c.PriceEstimate); err != nil {
			return count, fmt.Errorf("bulk add %q: %w", c.ItemName, err)
		}
		count++
	}
	return count, nil
}

// ListItems returns a list's items ordered by category then name.
func (s *ShoppingStore) ListItems(listID int64, includeChecked bool) ([]model.ShoppingListItem, error) {
	query := `SELECT ` + itemCols + ` FROM shopping_list_items WHERE list_id = ?`
	if !includeChecked {
		query += ` AND checked = 0`
	}
	query += ` ORDER BY category ASC, item_name ASC`

	rows, err := s.db.Query(query, listID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.ShoppingListItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ToggleChecked flips an item's checked state and returns the new state.
// Returns ErrNotFound for an unknown id; a bad id never silently succeeds.
func (s *ShoppingStore) ToggleChecked(id int64) (bool, error) {
	var checked int
	err := s.db.QueryRow(`SELECT checked FROM shopping_list_items WHERE id = ?`, id).Scan(&checked)
	if err == sql.ErrNoRows {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("get checked state: %w", err)
	}

	newState := checked == 0
	if _, err := s.db.Exec(`UPDATE shopping_list_items SET checked = ? WHERE id = ?`, boolToInt(newState), id); err != nil {
		return false, fmt.Errorf("toggle checked: %w", err)
	}
	return newState, nil
}

// RemoveItem deletes an item. The returned bool distinguishes "deleted now"
// from "was already absent"; callers may treat the latter as a no-op.
func (s *ShoppingStore) RemoveItem(id int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM shopping_list_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("remove item: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return count > 0, nil
}

// Clear deletes a list's items — only the checked ones when checkedOnly is
// set. The list row itself always survives.
func (s *ShoppingStore) Clear(listID int64, checkedOnly bool) (int64, error) {
	query := `DELETE FROM shopping_list_items WHERE list_id = ?`
	if checkedOnly {
		query += ` AND checked = 1`
	}
	result, err := s.db.Exec(query, listID)
	if err != nil {
		return 0, fmt.Errorf("clear list: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

// Stats summarizes a list. The estimate covers checked and unchecked items
// alike — it is informational, not an amount left to spend.
func (s *ShoppingStore) Stats(listID int64) (model.ListStats, error) {
	var stats model.ListStats
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(checked), 0), COALESCE(SUM(COALESCE(price_estimate, 0)), 0)
		 FROM shopping_list_items WHERE list_id = ?`,
		listID,
	).Scan(&stats.Total, &stats.Checked, &stats.TotalEstimate)
	if err != nil {
		return model.ListStats{}, fmt.Errorf("list stats: %w", err)
	}
	stats.Unchecked = stats.Total - stats.Checked
	return stats, nil
}

// CountUnchecked returns the unchecked item count, used for the list badge.
func (s *ShoppingStore) CountUnchecked(listID int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM shopping_list_items WHERE list_id = ? AND checked = 0`,
		listID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unchecked: %w", err)
	}
	return count, nil
}

// GroupByCategory returns a list's items grouped by category, categories in
// display-priority order with any stray category sorted last, items ordered
// by name within each group.
func (s *ShoppingStore) GroupByCategory(listID int64, includeChecked bool) ([]model.CategoryGroup, error) {
	items, err := s.ListItems(listID, includeChecked)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]model.ShoppingListItem)
	for _, item := range items {
		cat := item.Category
		if cat == "" {
			cat = category.Other
		}
		byCategory[cat] = append(byCategory[cat], item)
	}

	var groups []model.CategoryGroup
	for _, cat := range category.DisplayOrder {
		if catItems, ok := byCategory[cat]; ok {
			groups = append(groups, model.CategoryGroup{Category: cat, Items: catItems})
			delete(byCategory, cat)
		}
	}

	// Categories outside the known set sort last, by name.
	var strays []string
	for cat := range byCategory {
		strays = append(strays, cat)
	}
	sort.Strings(strays)
	for _, cat := range strays {
		groups = append(groups, model.CategoryGroup{Category: cat, Items: byCategory[cat]})
	}

	return groups, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
