package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/commercelab/ecommerce-catalog/internal/catalog/domain"
)

func (s *Service) ListOrders(ctx context.Context) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Order(nil), s.orders...)
}

// ListOrdersBetween returns orders whose date falls in [start, end],
// inclusive on both ends.
func (s *Service) ListOrdersBetween(ctx context.Context, start, end domain.Date) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.orders {
		if o.OrderDate.Before(start) || o.OrderDate.After(end) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func (s *Service) GetOrder(ctx context.Context, id int) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.orderIndex(id)
	if i < 0 {
		return domain.Order{}, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	return s.orders[i], nil
}

// CreateOrder places an order for one stock unit per occurrence of each id
// in productIDs (duplicates allowed). All checks run against the pre-order
// snapshot before anything is mutated, so a rejected order is side-effect
// free: the customer must exist, productIDs must be non-empty, every
// referenced product must exist, and each product's stock must cover the
// number of times it occurs in the order.
//
// On success the orders, products and customers tables are persisted in
// that fixed sequence as three independent writes.
func (s *Service) CreateOrder(ctx context.Context, customerID int, productIDs []int) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ci := s.customerIndex(customerID)
	if ci < 0 {
		return domain.Order{}, fmt.Errorf("order customer %d: %w", customerID, ErrInvalidReference)
	}
	if len(productIDs) == 0 {
		return domain.Order{}, fmt.Errorf("order has no products: %w", ErrConstraintViolation)
	}

	total := decimal.Zero
	wanted := make(map[int]int, len(productIDs))
	for _, pid := range productIDs {
		pi := s.productIndex(pid)
		if pi < 0 {
			return domain.Order{}, fmt.Errorf("order product %d: %w", pid, ErrInvalidReference)
		}
		total = total.Add(s.products[pi].Price)
		wanted[pid]++
	}
	for pid, n := range wanted {
		if s.products[s.productIndex(pid)].Stock < n {
			return domain.Order{}, fmt.Errorf("product %d out of stock: %w", pid, ErrConstraintViolation)
		}
	}

	o := domain.Order{
		ID:         s.nextOrderID(),
		CustomerID: customerID,
		ProductIDs: append([]int(nil), productIDs...),
		TotalPrice: total,
		OrderDate:  domain.DateOf(s.now()),
		Status:     domain.StatusPending,
	}
	s.orders = append(s.orders, o)
	for _, pid := range productIDs {
		s.products[s.productIndex(pid)].Stock--
	}
	s.linkOrders()

	// Persistence order is a contract: orders, then products, then
	// customers. There is no multi-table commit; a crash between writes
	// leaves the tables mutually inconsistent.
	if err := s.store.WriteOrders(ctx, s.orders); err != nil {
		return domain.Order{}, err
	}
	if err := s.store.WriteProducts(ctx, s.products); err != nil {
		return domain.Order{}, err
	}
	if err := s.store.WriteCustomers(ctx, s.customers); err != nil {
		return domain.Order{}, err
	}
	s.log.Info("order created", "orderId", o.ID, "customerId", customerID, "total", total.String())
	return o, nil
}

// UpdateOrderStatus overwrites the status unconditionally; any status may
// follow any other.
func (s *Service) UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.orderIndex(id)
	if i < 0 {
		return domain.Order{}, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	s.orders[i].Status = status
	if err := s.store.WriteOrders(ctx, s.orders); err != nil {
		return domain.Order{}, err
	}
	return s.orders[i], nil
}

// CancelOrder marks the order Cancelled. Stock is not returned.
func (s *Service) CancelOrder(ctx context.Context, id int) (domain.Order, error) {
	return s.UpdateOrderStatus(ctx, id, domain.StatusCancelled)
}
