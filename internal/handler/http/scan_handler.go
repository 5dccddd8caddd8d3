package http

import (
	"context"
	"encoding/json"
	"net/http"

	"histock/internal/feed"
	"histock/internal/logger"
	"histock/internal/model"
	"histock/internal/scan"
	"histock/internal/service"

	"go.opentelemetry.io/otel"
)

// ScanHandler is the decoded-input entry point. Any producer of one token
// per detection event lands here: the keyboard-wedge client, a camera
// pipeline, or a manual entry form.
type ScanHandler struct {
	inventory *service.InventoryService
	products  *feed.ProductProjection
}

var ScanHandlerTracer = otel.Tracer("ScanHandler")

func NewScanHandler(inventory *service.InventoryService, products *feed.ProductProjection) *ScanHandler {
	return &ScanHandler{
		inventory: inventory,
		products:  products,
	}
}

type scanRequest struct {
	Token    string         `json:"token"`
	Mode     model.ScanMode `json:"mode"`
	UserName string         `json:"userName"`
}

type scanResponse struct {
	Outcome     string             `json:"outcome"`
	Product     *model.Product     `json:"product,omitempty"`
	Transaction *model.Transaction `json:"transaction,omitempty"`
	// SearchQuery carries the raw token back so callers can prefill a
	// manual search when nothing matched.
	SearchQuery string `json:"searchQuery,omitempty"`
}

func (h *ScanHandler) Scan(globalCtx context.Context, w http.ResponseWriter, r *http.Request) {
	ctx, span := ScanHandlerTracer.Start(r.Context(), "ScanHandler.Scan")
	defer span.End()
	logger.Info(ctx, "ScanHandler")

	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Token == "" {
		http.Error(w, "Token is required", http.StatusBadRequest)
		return
	}
	if req.Mode == "" {
		req.Mode = model.ModeManual
	}
	if !req.Mode.Valid() {
		http.Error(w, "Unknown scan mode", http.StatusBadRequest)
		return
	}
	actor := req.UserName
	if actor == "" {
		actor = "System"
	}

	outcome := scan.Dispatch(req.Token, req.Mode, h.products)
	switch outcome.Kind {
	case scan.OutcomeNoMatch:
		writeJSON(w, http.StatusNotFound, scanResponse{
			Outcome:     "not_found",
			SearchQuery: outcome.Token,
		})
	case scan.OutcomeConfirm:
		product := outcome.Product
		writeJSON(w, http.StatusOK, scanResponse{
			Outcome: "confirm",
			Product: &product,
		})
	case scan.OutcomeAutoApply:
		t, err := h.inventory.Apply(ctx, service.ApplyInput{
			ProductID: outcome.Product.SKU,
			Type:      outcome.Type,
			Quantity:  1,
			Note:      "Auto-scan",
			Actor:     actor,
		})
		if err != nil {
			http.Error(w, err.Error(), errorStatus(err))
			return
		}
		product := outcome.Product
		writeJSON(w, http.StatusCreated, scanResponse{
			Outcome:     "applied",
			Product:     &product,
			Transaction: t,
		})
	}
}
