// Package http is the transport shell over the catalog service. It owns
// request decoding, response encoding and status mapping; all business
// rules live in the application package.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/commercelab/ecommerce-catalog/internal/catalog/application"
	"github.com/commercelab/ecommerce-catalog/internal/catalog/domain"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("catalog-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(h.log))

	r.Get("/health", h.health)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/stock/out-of-stock", h.listOutOfStock)
		r.Get("/{id}", h.getProduct)
		r.Put("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.listCustomers)
		r.Post("/", h.createCustomer)
		r.Get("/{id}", h.getCustomer)
		r.Get("/{id}/orders", h.customerOrders)
		r.Get("/{id}/reviews", h.customerReviews)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.listOrders)
		r.Post("/", h.createOrder)
		r.Get("/{id}", h.getOrder)
		r.Patch("/{id}/status", h.updateOrderStatus)
		r.Post("/{id}/cancel", h.cancelOrder)
	})

	r.Post("/reviews", h.createReview)

	r.Route("/analytics", func(r chi.Router) {
		r.Get("/top-products", h.topProducts)
		r.Get("/common-products", h.commonProducts)
	})

	return r
}

type productReq struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

type customerReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type orderReq struct {
	CustomerID int   `json:"customerId"`
	ProductIDs []int `json:"productIds"`
}

type reviewReq struct {
	ProductID  int    `json:"productId"`
	CustomerID int    `json:"customerId"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

type statusReq struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	counts := h.service.Counts(r.Context())
	h.respond(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"products":  counts.Products,
		"customers": counts.Customers,
		"orders":    counts.Orders,
		"reviews":   counts.Reviews,
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products := h.service.ListProducts(r.Context(), r.URL.Query().Get("name"))
	respondList(h, w, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	p, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, p)
}

func (h *Handler) listOutOfStock(w http.ResponseWriter, r *http.Request) {
	respondList(h, w, h.service.ListOutOfStock(r.Context()))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateProduct")
	defer span.End()

	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Price.IsNegative() || req.Stock < 0 {
		http.Error(w, "name required, price and stock must be non-negative", http.StatusBadRequest)
		return
	}
	p, err := h.service.CreateProduct(ctx, req.Name, req.Price, req.Stock)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateProduct")
	defer span.End()

	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Price.IsNegative() || req.Stock < 0 {
		http.Error(w, "name required, price and stock must be non-negative", http.StatusBadRequest)
		return
	}
	p, err := h.service.UpdateProduct(ctx, id, req.Name, req.Price, req.Stock)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteProduct")
	defer span.End()

	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	deleted, err := h.service.DeleteProduct(ctx, id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if !deleted {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	h.respond(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	respondList(h, w, h.service.ListCustomers(r.Context()))
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	c, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, c)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateCustomer")
	defer span.End()

	var req customerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" {
		http.Error(w, "name and email required", http.StatusBadRequest)
		return
	}
	c, err := h.service.CreateCustomer(ctx, req.Name, req.Email)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, c)
}

func (h *Handler) customerOrders(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	respondList(h, w, h.service.CustomerOrders(r.Context(), id))
}

func (h *Handler) customerReviews(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	respondList(h, w, h.service.CustomerReviews(r.Context(), id))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	startRaw, endRaw := q.Get("start_date"), q.Get("end_date")
	if startRaw == "" && endRaw == "" {
		respondList(h, w, h.service.ListOrders(r.Context()))
		return
	}
	start, err := domain.ParseDate(startRaw)
	if err != nil {
		http.Error(w, "invalid start_date", http.StatusBadRequest)
		return
	}
	end, err := domain.ParseDate(endRaw)
	if err != nil {
		http.Error(w, "invalid end_date", http.StatusBadRequest)
		return
	}
	respondList(h, w, h.service.ListOrdersBetween(r.Context(), start, end))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	o, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, o)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateOrder")
	defer span.End()

	var req orderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	o, err := h.service.CreateOrder(ctx, req.CustomerID, req.ProductIDs)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, o)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateOrderStatus")
	defer span.End()

	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if !req.Status.Valid() {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}
	o, err := h.service.UpdateOrderStatus(ctx, id, req.Status)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, o)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CancelOrder")
	defer span.End()

	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	o, err := h.service.CancelOrder(ctx, id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, o)
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateReview")
	defer span.End()

	var req reviewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	rev, err := h.service.CreateReview(ctx, req.ProductID, req.CustomerID, req.Rating, req.Comment)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, rev)
}

func (h *Handler) topProducts(w http.ResponseWriter, r *http.Request) {
	limit := 3
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 10 {
			http.Error(w, "limit must be between 1 and 10", http.StatusBadRequest)
			return
		}
		limit = n
	}
	respondList(h, w, h.service.TopProductsByRating(r.Context(), limit))
}

func (h *Handler) commonProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, errA := strconv.Atoi(q.Get("customer_id1"))
	b, errB := strconv.Atoi(q.Get("customer_id2"))
	if errA != nil || errB != nil {
		http.Error(w, "customer_id1 and customer_id2 required", http.StatusBadRequest)
		return
	}
	respondList(h, w, h.service.CommonHighRatedProducts(r.Context(), a, b))
}

func (h *Handler) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("encode response", "err", err)
	}
}

// respondList encodes a slice, turning a nil result into [] instead of null.
func respondList[T any](h *Handler, w http.ResponseWriter, list []T) {
	if list == nil {
		list = []T{}
	}
	h.respond(w, http.StatusOK, list)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, application.ErrInvalidReference),
		errors.Is(err, application.ErrConstraintViolation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.log.Error("request failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func urlID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}
