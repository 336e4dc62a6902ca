package model

import "time"

// List status values. Transitions go active -> archived only.
const (
	ListStatusActive   = "active"
	ListStatusArchived = "archived"
)

// Item source tags.
const (
	SourceManual   = "manual"
	SourceOffer    = "offer"
	SourceRecipe   = "recipe"
	SourceBulk     = "bulk"
	SourceMealPlan = "meal_plan"
)

type ShoppingList struct {
	ID          int64     `json:"id"`
	HouseholdID *int64    `json:"household_id"`
	Name        string    `json:"name"`
	IsActive    bool      `json:"is_active"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type ShoppingListItem struct {
	ID            int64     `json:"id"`
	ListID        int64     `json:"list_id"`
	ItemName      string    `json:"item_name"`
	Quantity      string    `json:"quantity"`
	Category      string    `json:"category"`
	Checked       bool      `json:"checked"`
	Source        string    `json:"source"`
	SourceID      *string   `json:"source_id"`
	PriceEstimate *float64  `json:"price_estimate"`
	AddedAt       time.Time `json:"added_at"`
}

// CandidateItem is the transient output of the meal-plan extractor and the
// input unit of the store's bulk-insert path. It is never persisted as-is.
type CandidateItem struct {
	ItemName      string   `json:"item_name"`
	Quantity      string   `json:"quantity"`
	Category      string   `json:"category"`
	PriceEstimate *float64 `json:"price_estimate"`
	Source        string   `json:"source"`
	SourceID      *string  `json:"source_id"`
}

// ListStats summarizes a list. TotalEstimate sums price estimates over all
// items, checked and unchecked, treating missing estimates as zero.
type ListStats struct {
	Total         int     `json:"total"`
	Checked       int     `json:"checked"`
	Unchecked     int     `json:"unchecked"`
	TotalEstimate float64 `json:"total_estimate"`
}

// CategoryGroup holds one category's items in display order.
type CategoryGroup struct {
	Category string             `json:"category"`
	Items    []ShoppingListItem `json:"items"`
}
