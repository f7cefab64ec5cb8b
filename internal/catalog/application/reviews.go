package application

import (
	"context"
	"fmt"

	"github.com/commercelab/ecommerce-catalog/internal/catalog/domain"
)

// CreateReview records a rating for a product. Both the product and the
// customer must exist and the rating must be between 1 and 5 inclusive.
// The affected product's review list and average rating are rebuilt from
// the full review set afterwards.
func (s *Service) CreateReview(ctx context.Context, productID, customerID, rating int, comment string) (domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.productIndex(productID) < 0 {
		return domain.Review{}, fmt.Errorf("review product %d: %w", productID, ErrInvalidReference)
	}
	if s.customerIndex(customerID) < 0 {
		return domain.Review{}, fmt.Errorf("review customer %d: %w", customerID, ErrInvalidReference)
	}
	if rating < 1 || rating > 5 {
		return domain.Review{}, fmt.Errorf("rating %d outside 1-5: %w", rating, ErrConstraintViolation)
	}

	r := domain.Review{
		ID:         s.nextReviewID(),
		ProductID:  productID,
		CustomerID: customerID,
		Rating:     rating,
		Comment:    comment,
	}
	s.reviews = append(s.reviews, r)
	if err := s.store.WriteReviews(ctx, s.reviews); err != nil {
		return domain.Review{}, err
	}
	s.linkReviews()
	s.log.Info("review created", "reviewId", r.ID, "productId", productID, "rating", rating)
	return r, nil
}
