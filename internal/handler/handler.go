// Package handler contains HTTP request handlers for the travel planner:
// the JSON API, the HTML page and the health check.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/shiva/tripwise/internal/service"
)

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeJSON is a helper that writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[handler] encode response: %v", err)
	}
}

// writeServiceError maps service errors to status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyPlace):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "empty_place",
			Message: "Both origin and destination are required.",
		})
	case errors.Is(err, service.ErrUnknownSort):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_sort",
			Message: "sort must be one of: duration, fare, eco.",
		})
	case errors.Is(err, service.ErrUnknownMode):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_mode",
			Message: "modes must be a comma-separated list of: bus, auto, bike, train, car, luxury-train, flight.",
		})
	default:
		log.Printf("[handler] search error: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal_error"})
	}
}
