package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/order-service/internal/client"
	"github.com/rakharan/tokopaedi-microservices/order-service/internal/domain"
	r "github.com/rakharan/tokopaedi-microservices/order-service/internal/repository"
	"github.com/rakharan/tokopaedi-microservices/order-service/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type OrderHandler struct {
	svc *service.OrderService
	log *zap.Logger
}

func NewOrderHandler(svc *service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		svc: svc,
		log: log,
	}
}

func (h *OrderHandler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", h.CreateOrder)
	router.Get("/", h.ListOrders)
	router.Get("/{order_id}", h.GetOrder)
	return router
}

type CreateOrderRequest struct {
	Items []service.ItemRequest `json:"items"`
}

type OrderItemDTO struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int32   `json:"quantity"`
}

type OrderResponseDTO struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"user_id"`
	TotalAmount float64        `json:"total_amount"`
	Status      string         `json:"status"`
	Items       []OrderItemDTO `json:"items"`
	CreatedAt   string         `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, req *http.Request) {
	var body CreateOrderRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	// User identity comes from an auth layer in front of this service; a
	// fixed id stands in until then.
	var userID int64 = 1

	order, err := h.svc.CreateOrder(req.Context(), userID, body.Items)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, convertOrder(order))
}

// GET /api/v1/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, req *http.Request) {
	var userID int64 = 1

	orders, err := h.svc.ListOrders(req.Context(), userID)
	if err != nil {
		h.log.Error("list orders failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}

	dtos := make([]OrderResponseDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, convertOrder(o))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/orders/{order_id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, req *http.Request) {
	raw := chi.URLParam(req, "order_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a positive integer")
		return
	}

	order, err := h.svc.GetOrder(req.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, convertOrder(order))
}

func (h *OrderHandler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, r.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "order not found")
	case errors.Is(err, service.ErrNoItems),
		errors.Is(err, service.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_items", err.Error())
	case errors.Is(err, client.ErrProductNotFound):
		respondError(w, http.StatusBadRequest, "unknown_product", err.Error())
	case errors.Is(err, client.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, client.ErrConcurrencyConflict):
		respondError(w, http.StatusConflict, "concurrency_conflict", err.Error())
	default:
		h.log.Error("order request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func convertOrder(o *domain.Order) OrderResponseDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
	}

	return OrderResponseDTO{
		ID:          o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		Items:       items,
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already written, an encode failure cannot be
	// reported to the client anymore.
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
