package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercelab/ecommerce-catalog/internal/catalog/domain"
)

func TestCreateOrderDecrementsStockPerOccurrence(t *testing.T) {
	store := &fakeStore{
		products:  []domain.Product{{ID: 101, Name: "Widget", Price: price("10.0"), Stock: 2}},
		customers: []domain.Customer{{ID: 201, Name: "Ada", Email: "ada@example.com"}},
	}
	svc := newTestService(t, store)
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, 201, []int{101, 101})
	require.NoError(t, err)
	assert.Equal(t, 301, o.ID)
	assert.True(t, o.TotalPrice.Equal(price("20.0")), "total %s", o.TotalPrice)
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.Equal(t, "2026-09-01", o.OrderDate.String())

	p, err := svc.GetProduct(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)

	c, err := svc.GetCustomer(ctx, 201)
	require.NoError(t, err)
	assert.Equal(t, []int{301}, c.OrderIDs)

	// Stock is exhausted now; the next order is rejected and stock stays 0.
	_, err = svc.CreateOrder(ctx, 201, []int{101})
	require.ErrorIs(t, err, ErrConstraintViolation)
	p, err = svc.GetProduct(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestCreateOrderPersistsOrdersThenProductsThenCustomers(t *testing.T) {
	store := seededStore()
	svc := newTestService(t, store)

	_, err := svc.CreateOrder(context.Background(), 201, []int{101, 103})
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "products", "customers"}, store.writes)
}

func TestCreateOrderRejectionsAreSideEffectFree(t *testing.T) {
	tests := []struct {
		name       string
		customerID int
		productIDs []int
		wantErr    error
	}{
		{"unknown customer", 999, []int{101}, ErrInvalidReference},
		{"empty product list", 201, nil, ErrConstraintViolation},
		{"unknown product", 201, []int{101, 999}, ErrInvalidReference},
		{"zero stock product among in-stock ones", 201, []int{101, 102}, ErrConstraintViolation},
		{"duplicates exceeding stock", 201, []int{101, 101, 101, 101, 101}, ErrConstraintViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seededStore()
			svc := newTestService(t, store)

			_, err := svc.CreateOrder(context.Background(), tt.customerID, tt.productIDs)
			require.ErrorIs(t, err, tt.wantErr)

			// Nothing was persisted and no stock moved.
			assert.Empty(t, store.writes)
			p, err := svc.GetProduct(context.Background(), 101)
			require.NoError(t, err)
			assert.Equal(t, 4, p.Stock)
			assert.Len(t, svc.ListOrders(context.Background()), 3)
		})
	}
}

func TestCreateOrderSurfacesWriteFailure(t *testing.T) {
	store := seededStore()
	store.failOn = "orders"
	svc := newTestService(t, store)

	_, err := svc.CreateOrder(context.Background(), 201, []int{103})
	require.Error(t, err)
	assert.Empty(t, store.writes)
}

func TestGetOrder(t *testing.T) {
	svc := newTestService(t, seededStore())

	o, err := svc.GetOrder(context.Background(), 302)
	require.NoError(t, err)
	assert.Equal(t, 202, o.CustomerID)

	_, err = svc.GetOrder(context.Background(), 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersBetweenIsInclusive(t *testing.T) {
	svc := newTestService(t, seededStore())

	orders := svc.ListOrdersBetween(context.Background(), mustDate("2026-08-01"), mustDate("2026-08-15"))
	ids := make([]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	assert.Equal(t, []int{301, 302}, ids)

	orders = svc.ListOrdersBetween(context.Background(), mustDate("2026-08-16"), mustDate("2026-08-19"))
	assert.Empty(t, orders)
}

func TestUpdateOrderStatusAllowsAnyTransition(t *testing.T) {
	store := seededStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	// Delivered back to Pending is allowed; there is no state machine.
	o, err := svc.UpdateOrderStatus(ctx, 301, domain.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.Equal(t, []string{"orders"}, store.writes)

	_, err = svc.UpdateOrderStatus(ctx, 999, domain.StatusShipped)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCancelOrderDoesNotRestock(t *testing.T) {
	store := seededStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, 201, []int{103})
	require.NoError(t, err)

	before, err := svc.GetProduct(ctx, 103)
	require.NoError(t, err)

	cancelled, err := svc.CancelOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	after, err := svc.GetProduct(ctx, 103)
	require.NoError(t, err)
	assert.Equal(t, before.Stock, after.Stock)
}

func TestOrderIDStartsAt301(t *testing.T) {
	store := &fakeStore{
		products:  []domain.Product{{ID: 101, Name: "Widget", Price: price("1.0"), Stock: 1}},
		customers: []domain.Customer{{ID: 201, Name: "Ada", Email: "ada@example.com"}},
	}
	svc := newTestService(t, store)

	o, err := svc.CreateOrder(context.Background(), 201, []int{101})
	require.NoError(t, err)
	assert.Equal(t, 301, o.ID)
}
