package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gentleman753/campuseats/internal/catalog"
	"github.com/gentleman753/campuseats/internal/domain"
	"github.com/go-chi/chi/v5"
)

// BrowseService covers the read-only storefront pages.
type BrowseService interface {
	ListCanteens(ctx context.Context) ([]domain.Canteen, error)
	GetCanteen(ctx context.Context, canteenID string) (*domain.Canteen, error)
	GetMenu(ctx context.Context, canteenID string) ([]domain.MenuItem, error)
}

type CanteenHandler struct {
	catalog BrowseService
	timeout time.Duration
}

func NewCanteenHandler(catalogSvc BrowseService, timeout time.Duration) *CanteenHandler {
	return &CanteenHandler{
		catalog: catalogSvc,
		timeout: timeout,
	}
}

func (h *CanteenHandler) ListCanteens(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	canteens, err := h.catalog.ListCanteens(ctx)
	if err != nil {
		log.Printf("failed to list canteens: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, canteens)
}

func (h *CanteenHandler) GetCanteen(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	canteenID := chi.URLParam(r, "canteen_id")
	if canteenID == "" {
		respondError(w, http.StatusBadRequest, "invalid_canteen_id", "canteen_id is required")
		return
	}

	canteen, err := h.catalog.GetCanteen(ctx, canteenID)
	if err != nil {
		if errors.Is(err, catalog.ErrCanteenNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "canteen not found")
			return
		}
		log.Printf("failed to get canteen %v: %v", canteenID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, canteen)
}

func (h *CanteenHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	canteenID := chi.URLParam(r, "canteen_id")
	if canteenID == "" {
		respondError(w, http.StatusBadRequest, "invalid_canteen_id", "canteen_id is required")
		return
	}

	items, err := h.catalog.GetMenu(ctx, canteenID)
	if err != nil {
		if errors.Is(err, catalog.ErrCanteenNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "canteen not found")
			return
		}
		log.Printf("failed to get menu for canteen %v: %v", canteenID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, items)
}
