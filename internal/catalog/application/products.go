package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/commercelab/ecommerce-catalog/internal/catalog/domain"
)

// ListProducts returns every product, or only those whose name contains
// nameFilter (case-insensitive) when it is non-empty.
func (s *Service) ListProducts(ctx context.Context, nameFilter string) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if nameFilter == "" {
		return append([]domain.Product(nil), s.products...)
	}
	needle := strings.ToLower(nameFilter)
	var out []domain.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Service) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndex(id)
	if i < 0 {
		return domain.Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return s.products[i], nil
}

func (s *Service) ListOutOfStock(ctx context.Context) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Product
	for _, p := range s.products {
		if p.Stock == 0 {
			out = append(out, p)
		}
	}
	return out
}

func (s *Service) CreateProduct(ctx context.Context, name string, price decimal.Decimal, stock int) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := domain.Product{
		ID:            s.nextProductID(),
		Name:          name,
		Price:         price,
		Stock:         stock,
		Reviews:       []domain.Review{},
		AverageRating: 0.0,
	}
	s.products = append(s.products, p)
	if err := s.store.WriteProducts(ctx, s.products); err != nil {
		return domain.Product{}, err
	}
	s.log.Info("product created", "productId", p.ID, "name", p.Name)
	return p, nil
}

// UpdateProduct overwrites name, price and stock in place. Reviews and the
// average rating are untouched.
func (s *Service) UpdateProduct(ctx context.Context, id int, name string, price decimal.Decimal, stock int) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndex(id)
	if i < 0 {
		return domain.Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	s.products[i].Name = name
	s.products[i].Price = price
	s.products[i].Stock = stock
	if err := s.store.WriteProducts(ctx, s.products); err != nil {
		return domain.Product{}, err
	}
	return s.products[i], nil
}

// DeleteProduct removes the product if present and reports whether it did.
// Orders and reviews referencing the product are left as they are.
func (s *Service) DeleteProduct(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndex(id)
	if i < 0 {
		return false, nil
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	if err := s.store.WriteProducts(ctx, s.products); err != nil {
		return false, err
	}
	s.log.Info("product deleted", "productId", id)
	return true, nil
}
