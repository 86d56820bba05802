package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/eventhub-be/internal/database"
	"github.com/isdelr/eventhub-be/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// errorStatus maps service errors onto HTTP status codes: validation and
// conflict failures are the client's fault, missing records are 404 and
// anything unclassified is a 500.
func errorStatus(err error) int {
	switch {
	case services.IsValidationError(err) || errors.Is(err, services.ErrEmailTaken):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrUserNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, errorStatus(err), err.Error())
}
