package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"histock/internal/feed"
	"histock/internal/logger"
	"histock/internal/model"
	"histock/internal/service"

	"go.opentelemetry.io/otel"
)

type InventoryHandler struct {
	inventory *service.InventoryService
	sync      *feed.Synchronizer
}

var InventoryHandlerTracer = otel.Tracer("InventoryHandler")

func NewInventoryHandler(inventory *service.InventoryService, sync *feed.Synchronizer) *InventoryHandler {
	return &InventoryHandler{
		inventory: inventory,
		sync:      sync,
	}
}

// errorStatus maps the service failure classes onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateSKU):
		return http.StatusConflict
	case errors.Is(err, service.ErrInsufficientStock):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrInvalidCategories):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *InventoryHandler) GetProducts(globalCtx context.Context, w http.ResponseWriter, r *http.Request) {
	ctx, span := InventoryHandlerTracer.Start(r.Context(), "InventoryHandler.GetProducts")
	defer span.End()
	logger.Info(ctx, "InventoryHandler")

	products := service.FilterProducts(
		h.sync.Products().All(),
		r.URL.Query().Get("q"),
		r.URL.Query().Get("category"),
	)
	writeJSON(w, http.StatusOK, products)
}

func (h *InventoryHandler) GetProduct(globalCtx context.Context, w http.ResponseWriter, r *http.Request) {
	ctx, span := InventoryHandlerTracer.Start(r.Context(), "InventoryHandler.GetProduct")
	defer span.End()
	logger.Info(ctx, "InventoryHandler")

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "ID is required", http.StatusBadRequest)
		return
	}
	product, ok := h.sync.Products().Get(id)
	if !ok {
		http.Error(w, service.ErrNotFound.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *InventoryHandler) CreateProduct(globalCtx context.Context, w http.ResponseWriter, r *http.Request) {
	ctx, span := InventoryHandlerTracer.Start(r.Context(), "InventoryHandler.CreateProduct")
	defer span.End()
	logger.Info(ctx, "InventoryHandler")

	var product model.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.inventory.AddProduct(ctx, &product); err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

type transactionRequest struct {
	ProductID string                `json:"productId"`
	Type      model.TransactionType `json:"type"`
	Quantity  int                   `json:"quantity"`
	Note      string                `json:"note"`
	UserName  string                `json:"userName"`
}

func (h *InventoryHandler) CreateTransaction(globalCtx context.Context, w http.ResponseWriter, r *http.Request) {
	ctx, span := InventoryHandlerTracer.Start(r.Context(), "InventoryHandler.CreateTransaction")
	defer span.End()
	logger.Info(ctx, "InventoryHandler")

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	actor := req.UserName
	if actor == "" {
		actor = "System"
	}

	t, err := h.inventory.Apply(ctx, service.ApplyInput{
		ProductID: req.ProductID,
		Type:      req.Type,
		Quantity:  req.Quantity,
		Note:      req.Note,
		Actor:     actor,
	})
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *InventoryHandler) GetTransactions(globalCtx context.Context, w http.ResponseWriter, r *http.Request) {
	ctx, span := InventoryHandlerTracer.Start(r.Context(), "InventoryHandler.GetTransactions")
	defer span.End()
	logger.Info(ctx, "InventoryHandler")

	writeJSON(w, http.StatusOK, h.sync.Transactions().Recent())
}

func (h *InventoryHandler) Dashboard(globalCtx context.Context, w http.ResponseWriter, r *http.Request) {
	ctx, span := InventoryHandlerTracer.Start(r.Context(), "InventoryHandler.Dashboard")
	defer span.End()
	logger.Info(ctx, "InventoryHandler")

	products := h.sync.Products().All()
	writeJSON(w, http.StatusOK, map[string]any{
		"productCount": len(products),
		"totalStock":   service.TotalStock(products),
		"lowStock":     service.LowStock(products),
	})
}
