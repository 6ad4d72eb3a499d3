package handlers

import (
	"net/http"
	"strconv"

	"event-marketplace/internal/services"
)

// EventHandler serves the public event catalogue
type EventHandler struct {
	catalogue services.CatalogueServiceInterface
}

// NewEventHandler creates a new event handler
func NewEventHandler(catalogue services.CatalogueServiceInterface) *EventHandler {
	return &EventHandler{catalogue: catalogue}
}

// ListEvents handles GET /events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	events, err := h.catalogue.ListEvents(limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}

// GetEvent handles GET /events/{eventID}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	listing, err := h.catalogue.GetEvent(r.Context(), eventID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

// GetEventTickets handles GET /events/{eventID}/tickets
func (h *EventHandler) GetEventTickets(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	listing, err := h.catalogue.GetEvent(r.Context(), eventID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tickets": listing.Tickets,
	})
}
