// Package application holds the catalog's business rules: the four entity
// tables fully materialized in memory, derived cross-references between
// them, and every read/write operation the transport shell calls.
//
// Known limitations, preserved deliberately pending product-owner review:
// cancelling an order does not restock its products, and deleting a product
// does not clean up orders or reviews that reference it.
package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/commercelab/ecommerce-catalog/internal/catalog/domain"
)

// Service is the single source of truth for catalog data between storage
// writes. It is constructed once at startup, loading all four tables.
//
// The mutex serializes operations: the data model assumes one request at a
// time, and the HTTP server would otherwise run handlers concurrently.
type Service struct {
	mu    sync.Mutex
	log   *slog.Logger
	store TableStore
	now   func() time.Time

	products  []domain.Product
	customers []domain.Customer
	orders    []domain.Order
	reviews   []domain.Review
}

func NewService(ctx context.Context, log *slog.Logger, store TableStore) (*Service, error) {
	s := &Service{log: log, store: store, now: time.Now}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) load(ctx context.Context) error {
	var err error
	if s.products, err = s.store.ReadProducts(ctx); err != nil {
		return err
	}
	if s.customers, err = s.store.ReadCustomers(ctx); err != nil {
		return err
	}
	if s.orders, err = s.store.ReadOrders(ctx); err != nil {
		return err
	}
	if s.reviews, err = s.store.ReadReviews(ctx); err != nil {
		return err
	}
	s.linkReviews()
	s.linkOrders()
	s.log.Info("catalog loaded",
		"products", len(s.products),
		"customers", len(s.customers),
		"orders", len(s.orders),
		"reviews", len(s.reviews),
	)
	return nil
}

// linkReviews rebuilds every product's review list and average rating from
// the full review set. Derived fields are always recomputed, never patched
// incrementally, so they cannot drift.
func (s *Service) linkReviews() {
	for i := range s.products {
		p := &s.products[i]
		p.Reviews = []domain.Review{}
		sum := 0
		for _, r := range s.reviews {
			if r.ProductID == p.ID {
				p.Reviews = append(p.Reviews, r)
				sum += r.Rating
			}
		}
		if len(p.Reviews) > 0 {
			p.AverageRating = float64(sum) / float64(len(p.Reviews))
		} else {
			p.AverageRating = 0.0
		}
	}
}

// linkOrders rebuilds every customer's order-id list in creation order.
func (s *Service) linkOrders() {
	for i := range s.customers {
		c := &s.customers[i]
		c.OrderIDs = []int{}
		for _, o := range s.orders {
			if o.CustomerID == c.ID {
				c.OrderIDs = append(c.OrderIDs, o.ID)
			}
		}
	}
}

// Counts reports the number of records per table, for the health endpoint.
type Counts struct {
	Products  int `json:"products"`
	Customers int `json:"customers"`
	Orders    int `json:"orders"`
	Reviews   int `json:"reviews"`
}

func (s *Service) Counts(ctx context.Context) Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counts{
		Products:  len(s.products),
		Customers: len(s.customers),
		Orders:    len(s.orders),
		Reviews:   len(s.reviews),
	}
}

func (s *Service) productIndex(id int) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) customerIndex(id int) int {
	for i := range s.customers {
		if s.customers[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) orderIndex(id int) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

// Each table assigns ids as max existing + 1, from a table-specific base so
// id ranges do not overlap across tables.

func (s *Service) nextProductID() int {
	max := 100
	for _, p := range s.products {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

func (s *Service) nextCustomerID() int {
	max := 200
	for _, c := range s.customers {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

func (s *Service) nextOrderID() int {
	max := 300
	for _, o := range s.orders {
		if o.ID > max {
			max = o.ID
		}
	}
	return max + 1
}

func (s *Service) nextReviewID() int {
	max := 400
	for _, r := range s.reviews {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}
