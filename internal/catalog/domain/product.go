package domain

import "github.com/shopspring/decimal"

// Product is a catalog item. Reviews and AverageRating are derived from the
// reviews table and are recomputed whenever the review set changes; they are
// never persisted.
type Product struct {
	ID            int             `json:"productId"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	Reviews       []Review        `json:"reviews"`
	AverageRating float64         `json:"averageRating"`
}
