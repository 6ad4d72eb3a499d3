package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"event-marketplace/internal/middleware"
	"event-marketplace/internal/models"
	"event-marketplace/internal/services"
)

// CartHandler serves the cart and checkout endpoints
type CartHandler struct {
	cartService     services.CartServiceInterface
	checkoutService services.CheckoutServiceInterface
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService services.CartServiceInterface, checkoutService services.CheckoutServiceInterface) *CartHandler {
	return &CartHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
	}
}

func cartKeyOrFail(w http.ResponseWriter, r *http.Request) (models.CartKey, bool) {
	key, ok := middleware.GetCartKey(r)
	if !ok {
		respondError(w, http.StatusInternalServerError, "session not initialized")
		return models.CartKey{}, false
	}
	return key, true
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	key, ok := cartKeyOrFail(w, r)
	if !ok {
		return
	}

	summary, err := h.cartService.Summarize(key)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	key, ok := cartKeyOrFail(w, r)
	if !ok {
		return
	}

	var req services.AddItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.cartService.AddItem(key, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	summary, err := h.cartService.Summarize(key)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"item": item,
		"cart": summary,
	})
}

// UpdateItem handles PUT /cart/items/{itemID}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	key, ok := cartKeyOrFail(w, r)
	if !ok {
		return
	}

	itemID, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.cartService.UpdateQuantity(key, itemID, req.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	summary, err := h.cartService.Summarize(key)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"item": item,
		"cart": summary,
	})
}

// RemoveItem handles DELETE /cart/items/{itemID}. Removing a line that is
// already gone succeeds.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	key, ok := cartKeyOrFail(w, r)
	if !ok {
		return
	}

	itemID, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.cartService.RemoveItem(key, itemID, false); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Checkout handles POST /cart/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	key, ok := cartKeyOrFail(w, r)
	if !ok {
		return
	}

	var req services.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.checkoutService.Checkout(r.Context(), key, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":         true,
		"order_id":        result.Order.ID,
		"booking_code":    result.Order.BookingCode,
		"total":           result.Order.Total,
		"account_created": result.AccountCreated,
	})
}
