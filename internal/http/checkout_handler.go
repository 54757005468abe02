package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gentleman753/campuseats/internal/checkout"
	"github.com/gentleman753/campuseats/internal/domain"
	"github.com/gentleman753/campuseats/internal/session"
	"github.com/go-chi/chi/v5"
)

type CheckoutService interface {
	PlaceOrder(ctx context.Context, sessionID, idempotencyKey string, snap domain.CartSnapshot) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
}

type CheckoutHandler struct {
	sessions *session.Manager
	checkout CheckoutService
	timeout  time.Duration
}

func NewCheckoutHandler(sessions *session.Manager, checkoutSvc CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		sessions: sessions,
		checkout: checkoutSvc,
		timeout:  timeout,
	}
}

type CheckoutRequestDTO struct {
	IdempotencyKey string `json:"idempotency_key"`
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	store := h.sessions.Cart(sessionID)
	order, err := h.checkout.PlaceOrder(ctx, sessionID, req.IdempotencyKey, store.Snapshot())
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
		case errors.Is(err, checkout.ErrMissingIdempotencyKey):
			respondError(w, http.StatusBadRequest, "missing_idempotency_key", err.Error())
		default:
			log.Printf("checkout failed for session %v: %v", sessionID, err)
			respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		}
		return
	}

	// The draft is spent once the order is placed
	store.Clear()
	h.sessions.End(sessionID)

	respondJSON(w, http.StatusCreated, order)
}

func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id is required")
		return
	}

	order, err := h.checkout.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, checkout.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		log.Printf("failed to get order %v: %v", orderID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
