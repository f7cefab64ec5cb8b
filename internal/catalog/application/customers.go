package application

import (
	"context"
	"fmt"

	"github.com/commercelab/ecommerce-catalog/internal/catalog/domain"
)

func (s *Service) ListCustomers(ctx context.Context) []domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Customer(nil), s.customers...)
}

func (s *Service) GetCustomer(ctx context.Context, id int) (domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.customerIndex(id)
	if i < 0 {
		return domain.Customer{}, fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	return s.customers[i], nil
}

func (s *Service) CreateCustomer(ctx context.Context, name, email string) (domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := domain.Customer{
		ID:       s.nextCustomerID(),
		Name:     name,
		Email:    email,
		OrderIDs: []int{},
	}
	s.customers = append(s.customers, c)
	if err := s.store.WriteCustomers(ctx, s.customers); err != nil {
		return domain.Customer{}, err
	}
	s.log.Info("customer created", "customerId", c.ID)
	return c, nil
}

// CustomerOrders returns the customer's orders in creation order. An unknown
// customer id simply yields an empty list.
func (s *Service) CustomerOrders(ctx context.Context, customerID int) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out
}

func (s *Service) CustomerReviews(ctx context.Context, customerID int) []domain.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Review
	for _, r := range s.reviews {
		if r.CustomerID == customerID {
			out = append(out, r)
		}
	}
	return out
}
