// Package csvstore persists each entity table as one CSV file with a fixed
// header row. encoding/csv quoting makes free-text columns and the
// semicolon-joined productIds column round-trip losslessly.
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/commercelab/ecommerce-catalog/internal/catalog/domain"
)

const (
	productsFile  = "products.csv"
	customersFile = "customers.csv"
	ordersFile    = "orders.csv"
	reviewsFile   = "reviews.csv"

	// Separator inside the productIds column. Distinct from the CSV comma
	// so a joined id list is a single field.
	idListSep = ";"
)

var (
	productColumns  = []string{"productId", "name", "price", "stock"}
	customerColumns = []string{"customerId", "name", "email"}
	orderColumns    = []string{"orderId", "customerId", "productIds", "totalPrice", "orderDate", "status"}
	reviewColumns   = []string{"reviewId", "productId", "customerId", "rating", "comment"}
)

// MalformedRecordError reports a table row that failed to parse. Loading
// aborts on the first malformed row rather than skipping it: a partially
// loaded table would silently drop the bad rows from the file on the next
// persist, while aborting leaves the file intact for the operator.
type MalformedRecordError struct {
	Table string
	Line  int
	Err   error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s line %d: %v", e.Table, e.Line, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

type Store struct {
	log *slog.Logger
	dir string
}

func NewStore(log *slog.Logger, dir string) *Store {
	return &Store{log: log, dir: dir}
}

func (s *Store) ReadProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.readTable(productsFile, productColumns)
	if err != nil {
		return nil, err
	}
	var products []domain.Product
	for i, row := range rows {
		p := domain.Product{Name: row[1]}
		err := firstErr(
			parseID(row[0], &p.ID),
			parsePrice(row[2], &p.Price),
			parseCount(row[3], &p.Stock),
		)
		if err != nil {
			return nil, &MalformedRecordError{Table: productsFile, Line: i + 2, Err: err}
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *Store) ReadCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := s.readTable(customersFile, customerColumns)
	if err != nil {
		return nil, err
	}
	var customers []domain.Customer
	for i, row := range rows {
		c := domain.Customer{Name: row[1], Email: row[2]}
		err := parseID(row[0], &c.ID)
		if err != nil {
			return nil, &MalformedRecordError{Table: customersFile, Line: i + 2, Err: err}
		}
		customers = append(customers, c)
	}
	return customers, nil
}

func (s *Store) ReadOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := s.readTable(ordersFile, orderColumns)
	if err != nil {
		return nil, err
	}
	var orders []domain.Order
	for i, row := range rows {
		var o domain.Order
		err := firstErr(
			parseID(row[0], &o.ID),
			parseID(row[1], &o.CustomerID),
			parseIDList(row[2], &o.ProductIDs),
			parsePrice(row[3], &o.TotalPrice),
			parseDate(row[4], &o.OrderDate),
			parseStatus(row[5], &o.Status),
		)
		if err != nil {
			return nil, &MalformedRecordError{Table: ordersFile, Line: i + 2, Err: err}
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *Store) ReadReviews(ctx context.Context) ([]domain.Review, error) {
	rows, err := s.readTable(reviewsFile, reviewColumns)
	if err != nil {
		return nil, err
	}
	var reviews []domain.Review
	for i, row := range rows {
		r := domain.Review{Comment: row[4]}
		err := firstErr(
			parseID(row[0], &r.ID),
			parseID(row[1], &r.ProductID),
			parseID(row[2], &r.CustomerID),
			parseRating(row[3], &r.Rating),
		)
		if err != nil {
			return nil, &MalformedRecordError{Table: reviewsFile, Line: i + 2, Err: err}
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}

func (s *Store) WriteProducts(ctx context.Context, products []domain.Product) error {
	rows := [][]string{productColumns}
	for _, p := range products {
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			p.Name,
			p.Price.String(),
			strconv.Itoa(p.Stock),
		})
	}
	return s.writeTable(productsFile, rows)
}

func (s *Store) WriteCustomers(ctx context.Context, customers []domain.Customer) error {
	rows := [][]string{customerColumns}
	for _, c := range customers {
		rows = append(rows, []string{
			strconv.Itoa(c.ID),
			c.Name,
			c.Email,
		})
	}
	return s.writeTable(customersFile, rows)
}

func (s *Store) WriteOrders(ctx context.Context, orders []domain.Order) error {
	rows := [][]string{orderColumns}
	for _, o := range orders {
		rows = append(rows, []string{
			strconv.Itoa(o.ID),
			strconv.Itoa(o.CustomerID),
			joinIDs(o.ProductIDs),
			o.TotalPrice.String(),
			o.OrderDate.String(),
			string(o.Status),
		})
	}
	return s.writeTable(ordersFile, rows)
}

func (s *Store) WriteReviews(ctx context.Context, reviews []domain.Review) error {
	rows := [][]string{reviewColumns}
	for _, r := range reviews {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(r.ProductID),
			strconv.Itoa(r.CustomerID),
			strconv.Itoa(r.Rating),
			r.Comment,
		})
	}
	return s.writeTable(reviewsFile, rows)
}

// readTable returns the data rows of the named table, header excluded. A
// missing file is an empty table, supporting first runs with no data.
func (s *Store) readTable(name string, columns []string) ([][]string, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Info("table file missing, treating as empty", "table", name)
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(columns)
	rows, err := r.ReadAll()
	if err != nil {
		line := 0
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			line = perr.Line
		}
		return nil, &MalformedRecordError{Table: name, Line: line, Err: err}
	}
	if len(rows) == 0 {
		return nil, &MalformedRecordError{Table: name, Line: 1, Err: errors.New("missing header row")}
	}
	for i, col := range columns {
		if rows[0][i] != col {
			return nil, &MalformedRecordError{Table: name, Line: 1, Err: fmt.Errorf("header column %d is %q, want %q", i+1, rows[0][i], col)}
		}
	}
	return rows[1:], nil
}

// writeTable fully replaces the file's prior content. There is no partial
// write protection; a crash mid-write can corrupt the table.
func (s *Store) writeTable(name string, rows [][]string) error {
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, idListSep)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func parseID(v string, dst *int) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid id %q", v)
	}
	*dst = n
	return nil
}

func parseCount(v string, dst *int) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return fmt.Errorf("invalid count %q", v)
	}
	*dst = n
	return nil
}

func parseRating(v string, dst *int) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 || n > 5 {
		return fmt.Errorf("invalid rating %q", v)
	}
	*dst = n
	return nil
}

func parsePrice(v string, dst *decimal.Decimal) error {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil || d.IsNegative() {
		return fmt.Errorf("invalid price %q", v)
	}
	*dst = d
	return nil
}

func parseIDList(v string, dst *[]int) error {
	var ids []int
	for _, part := range strings.Split(v, idListSep) {
		var id int
		if err := parseID(part, &id); err != nil {
			return fmt.Errorf("invalid id list %q", v)
		}
		ids = append(ids, id)
	}
	*dst = ids
	return nil
}

func parseDate(v string, dst *domain.Date) error {
	d, err := domain.ParseDate(strings.TrimSpace(v))
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func parseStatus(v string, dst *domain.OrderStatus) error {
	st := domain.OrderStatus(strings.TrimSpace(v))
	if !st.Valid() {
		return fmt.Errorf("invalid status %q", v)
	}
	*dst = st
	return nil
}
