package model

import "time"

// Offer is a scraped store offer. The scraper pushes these in; selecting an
// offer adds a shopping list item with source "offer".
type Offer struct {
	ProductID      string    `json:"product_id"`
	Name           string    `json:"name"`
	Underline      string    `json:"underline"`
	Department     string    `json:"department"`
	PriceNumeric   float64   `json:"price_numeric"`
	NormalPrice    float64   `json:"normal_price"`
	SavingsPercent float64   `json:"savings_percent"`
	UpdatedAt      time.Time `json:"updated_at"`
}
