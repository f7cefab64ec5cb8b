package application

import (
	"context"
	"sort"

	"github.com/commercelab/ecommerce-catalog/internal/catalog/domain"
)

// TopProductsByRating returns the products that have at least one review,
// ordered by average rating descending, at most limit of them. The sort is
// stable so ties keep their original table order.
func (s *Service) TopProductsByRating(ctx context.Context, limit int) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rated []domain.Product
	for _, p := range s.products {
		if len(p.Reviews) > 0 {
			rated = append(rated, p)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].AverageRating > rated[j].AverageRating
	})
	if limit < 0 {
		limit = 0
	}
	if limit < len(rated) {
		rated = rated[:limit]
	}
	return rated
}

// CommonHighRatedProducts returns the products both customers have reviewed
// where the combined mean of their reviews (all of each customer's reviews
// for the product) exceeds 4.0.
func (s *Service) CommonHighRatedProducts(ctx context.Context, customerA, customerB int) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Product
	for _, p := range s.products {
		sum, nA, nB := 0, 0, 0
		for _, r := range p.Reviews {
			switch r.CustomerID {
			case customerA:
				nA++
			case customerB:
				nB++
			default:
				continue
			}
			sum += r.Rating
		}
		if nA == 0 || nB == 0 {
			continue
		}
		if float64(sum)/float64(nA+nB) > 4.0 {
			out = append(out, p)
		}
	}
	return out
}
