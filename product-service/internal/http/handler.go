package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/product-service/internal/domain"
	r "github.com/rakharan/tokopaedi-microservices/product-service/internal/repository"
	"github.com/rakharan/tokopaedi-microservices/product-service/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ProductHandler struct {
	svc *service.ProductService
	log *zap.Logger
}

func NewProductHandler(svc *service.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		svc: svc,
		log: log,
	}
}

func (h *ProductHandler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", h.CreateProduct)
	router.Get("/", h.ListProducts)
	router.Get("/{product_id}", h.GetProduct)
	router.Post("/{product_id}/decrease-stock", h.DecreaseStock)
	router.Post("/{product_id}/increase-stock", h.IncreaseStock)
	return router
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    int32   `json:"category"`
	Stock       int32   `json:"stock"`
}

type StockChangeRequest struct {
	Quantity int32 `json:"quantity"`
}

type ProductResponseDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    int32   `json:"category"`
	Stock       int32   `json:"stock"`
	Version     int64   `json:"version"`
	CreatedAt   string  `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, req *http.Request) {
	var body CreateProductRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}
	if body.Name == "" || body.Price <= 0 || body.Stock < 0 {
		respondError(w, http.StatusBadRequest, "invalid_product", "name, positive price and non-negative stock are required")
		return
	}

	product := &domain.Product{
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		Category:    body.Category,
		Stock:       body.Stock,
	}
	if err := h.svc.CreateProduct(req.Context(), product); err != nil {
		h.log.Error("create product failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create product")
		return
	}

	respondJSON(w, http.StatusCreated, convertProduct(product))
}

// GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, req *http.Request) {
	products, err := h.svc.ListProducts(req.Context())
	if err != nil {
		h.log.Error("list products failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list products")
		return
	}

	dtos := make([]ProductResponseDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, convertProduct(p))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/products/{product_id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, req *http.Request) {
	id, ok := productID(w, req)
	if !ok {
		return
	}

	product, err := h.svc.GetProduct(req.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, convertProduct(product))
}

// POST /api/v1/products/{product_id}/decrease-stock
func (h *ProductHandler) DecreaseStock(w http.ResponseWriter, req *http.Request) {
	id, ok := productID(w, req)
	if !ok {
		return
	}

	var body StockChangeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	product, err := h.svc.DecreaseStock(req.Context(), id, body.Quantity)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, convertProduct(product))
}

// POST /api/v1/products/{product_id}/increase-stock
func (h *ProductHandler) IncreaseStock(w http.ResponseWriter, req *http.Request) {
	id, ok := productID(w, req)
	if !ok {
		return
	}

	var body StockChangeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	product, err := h.svc.IncreaseStock(req.Context(), id, body.Quantity)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, convertProduct(product))
}

func (h *ProductHandler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, r.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", "product not found")
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, service.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, service.ErrConcurrencyConflict):
		respondError(w, http.StatusConflict, "concurrency_conflict", err.Error())
	default:
		h.log.Error("product request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func productID(w http.ResponseWriter, req *http.Request) (int64, bool) {
	raw := chi.URLParam(req, "product_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return id, true
}

func convertProduct(p *domain.Product) ProductResponseDTO {
	return ProductResponseDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
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
