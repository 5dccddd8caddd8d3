package http

import (
	"context"
	"encoding/json"
	"net/http"

	"histock/internal/logger"
	"histock/internal/service"

	"go.opentelemetry.io/otel"
)

type SettingsHandler struct {
	settings *service.SettingsService
}

var SettingsHandlerTracer = otel.Tracer("SettingsHandler")

func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) GetCategories(globalCtx context.Context, w http.ResponseWriter, r *http.Request) {
	ctx, span := SettingsHandlerTracer.Start(r.Context(), "SettingsHandler.GetCategories")
	defer span.End()
	logger.Info(ctx, "SettingsHandler")

	writeJSON(w, http.StatusOK, map[string][]string{"categories": h.settings.Categories()})
}

func (h *SettingsHandler) PutCategories(globalCtx context.Context, w http.ResponseWriter, r *http.Request) {
	ctx, span := SettingsHandlerTracer.Start(r.Context(), "SettingsHandler.PutCategories")
	defer span.End()
	logger.Info(ctx, "SettingsHandler")

	var req struct {
		Categories []string `json:"categories"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := h.settings.ReplaceCategories(ctx, req.Categories); err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Categories updated"})
}

func (h *SettingsHandler) AddCategory(globalCtx context.Context, w http.ResponseWriter, r *http.Request) {
	ctx, span := SettingsHandlerTracer.Start(r.Context(), "SettingsHandler.AddCategory")
	defer span.End()
	logger.Info(ctx, "SettingsHandler")

	var req struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := h.settings.AddCategory(ctx, req.Category); err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category added"})
}

func (h *SettingsHandler) RemoveCategory(globalCtx context.Context, w http.ResponseWriter, r *http.Request) {
	ctx, span := SettingsHandlerTracer.Start(r.Context(), "SettingsHandler.RemoveCategory")
	defer span.End()
	logger.Info(ctx, "SettingsHandler")

	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}
	if err := h.settings.RemoveCategory(ctx, name); err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category removed"})
}
