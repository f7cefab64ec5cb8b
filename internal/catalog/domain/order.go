package domain

import "github.com/shopspring/decimal"

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusShipped   OrderStatus = "Shipped"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order references its customer and products by id. ProductIDs may contain
// duplicates; each occurrence consumed one stock unit at creation time.
// TotalPrice is the sum of the referenced products' prices as of creation.
type Order struct {
	ID         int             `json:"orderId"`
	CustomerID int             `json:"customerId"`
	ProductIDs []int           `json:"productIds"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	OrderDate  Date            `json:"orderDate"`
	Status     OrderStatus     `json:"status"`
}
