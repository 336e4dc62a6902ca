package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/madplan/kurv/internal/model"
)

// OfferStore holds the scraped store offers the engine consumes. The
// scraper itself lives outside this service and pushes records in.
type OfferStore struct {
	db *sql.DB
}

func NewOfferStore(db *sql.DB) *OfferStore {
	return &OfferStore{db: db}
}

func scanOffer(scanner interface{ Scan(...any) error }) (*model.Offer, error) {
	var o model.Offer
	err := scanner.Scan(
		&o.ProductID, &o.Name, &o.Underline, &o.Department,
		&o.PriceNumeric, &o.NormalPrice, &o.SavingsPercent, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

const offerCols = `product_id, name, underline, department, price_numeric, normal_price, savings_percent, updated_at`

func (s *OfferStore) GetByProductID(productID string) (*model.Offer, error) {
	row := s.db.QueryRow(`SELECT `+offerCols+` FROM offers WHERE product_id = ?`, productID)
	o, err := scanOffer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get offer: %w", err)
	}
	return o, nil
}

// Upsert inserts or replaces an offer by product id.
func (s *OfferStore) Upsert(o model.Offer) error {
	_, err := s.db.Exec(
		`INSERT INTO offers (product_id, name, underline, department, price_numeric, normal_price, savings_percent, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(product_id) DO UPDATE SET
		   name = excluded.name,
		   underline = excluded.underline,
		   department = excluded.department,
		   price_numeric = excluded.price_numeric,
		   normal_price = excluded.normal_price,
		   savings_percent = excluded.savings_percent,
		   updated_at = excluded.updated_at`,
		o.ProductID, o.Name, o.Underline, o.Department,
		o.PriceNumeric, o.NormalPrice, o.SavingsPercent, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert offer: %w", err)
	}
	return nil
}

// UpsertBatch stores a scraper batch in one transaction.
func (s *OfferStore) UpsertBatch(offers []model.Offer) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	count := 0
	for _, o := range offers {
		_, err := tx.Exec(
			`INSERT INTO offers (product_id, name, underline, department, price_numeric, normal_price, savings_percent, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(product_id) DO UPDATE SET
			   name = excluded.name,
			   underline = excluded.underline,
			   department = excluded.department,
			   price_numeric = excluded.price_numeric,
			   normal_price = excluded.normal_price,
			   savings_percent = excluded.savings_percent,
			   updated_at = excluded.updated_at`,
			o.ProductID, o.Name, o.Underline, o.Department,
			o.PriceNumeric, o.NormalPrice, o.SavingsPercent, now,
		)
		if err != nil {
			return 0, fmt.Errorf("upsert offer %q: %w", o.ProductID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return count, nil
}

func (s *OfferStore) List() ([]model.Offer, error) {
	rows, err := s.db.Query(`SELECT ` + offerCols + ` FROM offers ORDER BY savings_percent DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	var offers []model.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, *o)
	}
	return offers, rows.Err()
}
