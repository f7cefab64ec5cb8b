package application

import (
	"context"

	"github.com/commercelab/ecommerce-catalog/internal/catalog/domain"
)

// TableStore round-trips each entity table between durable storage and
// memory. A read of a table that does not exist yet yields an empty slice,
// not an error. A write fully replaces the table's prior content.
type TableStore interface {
	ReadProducts(ctx context.Context) ([]domain.Product, error)
	ReadCustomers(ctx context.Context) ([]domain.Customer, error)
	ReadOrders(ctx context.Context) ([]domain.Order, error)
	ReadReviews(ctx context.Context) ([]domain.Review, error)

	WriteProducts(ctx context.Context, products []domain.Product) error
	WriteCustomers(ctx context.Context, customers []domain.Customer) error
	WriteOrders(ctx context.Context, orders []domain.Order) error
	WriteReviews(ctx context.Context, reviews []domain.Review) error
}
