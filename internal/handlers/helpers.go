package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"event-marketplace/internal/models"
	"event-marketplace/internal/services"
)

// errorResponse is the JSON body returned for every failed request.
type errorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("handlers: failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Message: message})
}

// respondServiceError maps service errors onto HTTP statuses. Validation
// failures carry per-field messages; everything unrecognized is a 500 with
// the detail kept out of the response.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Message: "validation failed",
			Errors:  validationErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, models.ErrEventNotFound),
		errors.Is(err, models.ErrTicketNotFound),
		errors.Is(err, models.ErrCartNotFound),
		errors.Is(err, models.ErrCartItemNotFound),
		errors.Is(err, models.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrDiscountNotFound),
		errors.Is(err, models.ErrDiscountInactive),
		errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrInvalidInput):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrCheckInExceeded),
		errors.Is(err, models.ErrOrderNotCancellable):
		respondError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("handlers: internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
