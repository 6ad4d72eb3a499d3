package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"event-marketplace/internal/services"
)

// OrderHandler serves order lookup, check-in and cancellation
type OrderHandler struct {
	orderService services.OrderServiceInterface
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService services.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// GetOrder handles GET /orders/{bookingCode}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "bookingCode")

	details, err := h.orderService.GetByBookingCode(code)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, details)
}

// CheckIn handles POST /orders/{bookingCode}/items/{itemID}/checkin
func (h *OrderHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "bookingCode")

	itemID, err := parseIntParam(r, "itemID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order item id")
		return
	}

	var req struct {
		Count int `json:"count"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}

	item, err := h.orderService.CheckIn(code, itemID, req.Count)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Cancel handles POST /orders/{bookingCode}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "bookingCode")

	if err := h.orderService.Cancel(r.Context(), code); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func parseIntParam(r *http.Request, name string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, name))
}
