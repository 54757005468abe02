package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gentleman753/campuseats/internal/cart"
	"github.com/gentleman753/campuseats/internal/catalog"
	"github.com/gentleman753/campuseats/internal/domain"
	"github.com/gentleman753/campuseats/internal/session"
	"github.com/go-chi/chi/v5"
)

// CatalogService is the slice of the catalog the cart endpoints need:
// the item snapshot captured at add-to-cart time.
type CatalogService interface {
	GetMenuItem(ctx context.Context, canteenID, itemID string) (*domain.MenuItem, error)
}

type CartHandler struct {
	sessions *session.Manager
	catalog  CatalogService
	timeout  time.Duration
}

func NewCartHandler(sessions *session.Manager, catalogSvc CatalogService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		catalog:  catalogSvc,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	ItemID    string `json:"item_id"`
	CanteenID string `json:"canteen_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ConflictResponse carries both canteen ids so the client can render
// the "clear cart and start over?" prompt without another round trip.
type ConflictResponse struct {
	Error              string `json:"error"`
	Code               string `json:"code"`
	CurrentCanteenID   string `json:"current_canteen_id"`
	AttemptedCanteenID string `json:"attempted_canteen_id"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	store := h.sessions.Cart(sessionID)
	respondJSON(w, http.StatusOK, store.Snapshot())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	// Parse request body
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// Validate request
	if req.ItemID == "" || req.CanteenID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "item_id and canteen_id are required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	// Snapshot the item at add time: name and price are frozen into the
	// cart line from here on
	item, err := h.catalog.GetMenuItem(ctx, req.CanteenID, req.ItemID)
	if err != nil {
		if errors.Is(err, catalog.ErrMenuItemNotFound) {
			respondError(w, http.StatusNotFound, "item_not_found", "menu item not found in this canteen")
			return
		}
		log.Printf("failed to fetch menu item %v: %v", req.ItemID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	if !item.IsAvailable {
		respondError(w, http.StatusConflict, "item_unavailable", "menu item is currently unavailable")
		return
	}

	store := h.sessions.Cart(sessionID)
	if err := store.AddItem(*item, req.Quantity); err != nil {
		var conflict *cart.CanteenConflictError
		if errors.As(err, &conflict) {
			respondJSON(w, http.StatusConflict, ConflictResponse{
				Error:              conflict.Error(),
				Code:               "canteen_conflict",
				CurrentCanteenID:   conflict.CurrentCanteenID,
				AttemptedCanteenID: conflict.AttemptedCanteenID,
			})
			return
		}
		if errors.Is(err, cart.ErrInvalidQuantity) {
			respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
			return
		}
		log.Printf("failed to add item %v: %v", req.ItemID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, store.Snapshot())
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	store := h.sessions.Cart(sessionID)
	if err := store.SetQuantity(itemID, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			log.Printf("quantity update for unknown line %v in session %v", itemID, sessionID)
			respondError(w, http.StatusNotFound, "not_found", "item not in cart")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, store.Snapshot())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id is required")
		return
	}

	store := h.sessions.Cart(sessionID)
	store.RemoveItem(itemID)

	respondJSON(w, http.StatusOK, store.Snapshot())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	store := h.sessions.Cart(sessionID)
	store.Clear()

	respondJSON(w, http.StatusOK, store.Snapshot())
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: "",
	})
}
