package csvstore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercelab/ecommerce-catalog/internal/catalog/domain"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	return NewStore(slog.New(slog.NewTextHandler(io.Discard, nil)), dir), dir
}

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestMissingFilesAreEmptyTables(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	products, err := store.ReadProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	customers, err := store.ReadCustomers(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)

	orders, err := store.ReadOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	reviews, err := store.ReadReviews(ctx)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestProductRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	in := []domain.Product{
		{ID: 101, Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 5},
		{ID: 102, Name: "Mouse, wireless", Price: decimal.RequireFromString("19.95"), Stock: 0},
	}
	require.NoError(t, store.WriteProducts(ctx, in))

	out, err := store.ReadProducts(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 101, out[0].ID)
	assert.Equal(t, "Laptop", out[0].Name)
	assert.True(t, out[0].Price.Equal(in[0].Price))
	assert.Equal(t, 5, out[0].Stock)
	assert.Equal(t, "Mouse, wireless", out[1].Name)
	assert.Equal(t, 0, out[1].Stock)
}

func TestCustomerRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	in := []domain.Customer{
		{ID: 201, Name: "Ada Lovelace", Email: "ada@example.com"},
	}
	require.NoError(t, store.WriteCustomers(ctx, in))

	out, err := store.ReadCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, in[0], out[0])
}

func TestOrderRoundTripKeepsProductIDOrder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	in := []domain.Order{
		{
			ID:         301,
			CustomerID: 201,
			ProductIDs: []int{103, 101, 101, 102},
			TotalPrice: decimal.RequireFromString("59.80"),
			OrderDate:  mustDate(t, "2026-08-30"),
			Status:     domain.StatusPending,
		},
		{
			ID:         302,
			CustomerID: 202,
			ProductIDs: []int{101},
			TotalPrice: decimal.RequireFromString("19.95"),
			OrderDate:  mustDate(t, "2026-08-31"),
			Status:     domain.StatusShipped,
		},
	}
	require.NoError(t, store.WriteOrders(ctx, in))

	out, err := store.ReadOrders(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []int{103, 101, 101, 102}, out[0].ProductIDs)
	assert.True(t, out[0].TotalPrice.Equal(in[0].TotalPrice))
	assert.True(t, out[0].OrderDate.Equal(in[0].OrderDate))
	assert.Equal(t, domain.StatusPending, out[0].Status)
	assert.Equal(t, domain.StatusShipped, out[1].Status)
}

func TestReviewCommentQuotingIsLossless(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	comment := `great; really "great", 10/10
would buy again`
	in := []domain.Review{
		{ID: 401, ProductID: 101, CustomerID: 201, Rating: 5, Comment: comment},
	}
	require.NoError(t, store.WriteReviews(ctx, in))

	out, err := store.ReadReviews(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, comment, out[0].Comment)
}

func TestWriteReplacesPriorContent(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.WriteCustomers(ctx, []domain.Customer{
		{ID: 201, Name: "First", Email: "first@example.com"},
		{ID: 202, Name: "Second", Email: "second@example.com"},
	}))
	require.NoError(t, store.WriteCustomers(ctx, []domain.Customer{
		{ID: 203, Name: "Only", Email: "only@example.com"},
	}))

	out, err := store.ReadCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 203, out[0].ID)

	raw, err := os.ReadFile(filepath.Join(dir, "customers.csv"))
	require.NoError(t, err)
	assert.Equal(t, "customerId,name,email\n203,Only,only@example.com\n", string(raw))
}

func TestMalformedRowsAbortTheLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		line    int
		read    func(*Store) error
	}{
		{
			name:    "non-numeric product id",
			file:    "products.csv",
			content: "productId,name,price,stock\nabc,Laptop,10.0,5\n",
			line:    2,
			read: func(s *Store) error {
				_, err := s.ReadProducts(context.Background())
				return err
			},
		},
		{
			name:    "negative stock",
			file:    "products.csv",
			content: "productId,name,price,stock\n101,Laptop,10.0,-1\n",
			line:    2,
			read: func(s *Store) error {
				_, err := s.ReadProducts(context.Background())
				return err
			},
		},
		{
			name:    "wrong header",
			file:    "customers.csv",
			content: "id,name,email\n201,Ada,ada@example.com\n",
			line:    1,
			read: func(s *Store) error {
				_, err := s.ReadCustomers(context.Background())
				return err
			},
		},
		{
			name:    "bad order date",
			file:    "orders.csv",
			content: "orderId,customerId,productIds,totalPrice,orderDate,status\n301,201,101,10.0,30-08-2026,Pending\n",
			line:    2,
			read: func(s *Store) error {
				_, err := s.ReadOrders(context.Background())
				return err
			},
		},
		{
			name:    "unknown order status",
			file:    "orders.csv",
			content: "orderId,customerId,productIds,totalPrice,orderDate,status\n301,201,101,10.0,2026-08-30,Lost\n",
			line:    2,
			read: func(s *Store) error {
				_, err := s.ReadOrders(context.Background())
				return err
			},
		},
		{
			name:    "rating out of range",
			file:    "reviews.csv",
			content: "reviewId,productId,customerId,rating,comment\n401,101,201,9,nope\n",
			line:    2,
			read: func(s *Store) error {
				_, err := s.ReadReviews(context.Background())
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, dir := newTestStore(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.content), 0o644))

			err := tt.read(store)
			var merr *MalformedRecordError
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, tt.file, merr.Table)
			assert.Equal(t, tt.line, merr.Line)
		})
	}
}

func TestWriteToUnwritableDirFails(t *testing.T) {
	store := NewStore(slog.New(slog.NewTextHandler(io.Discard, nil)), filepath.Join(t.TempDir(), "missing"))
	err := store.WriteProducts(context.Background(), nil)
	require.Error(t, err)
}
