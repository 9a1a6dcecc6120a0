package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nameless-app/users-be/internal/apperrors"
)

// errorBody is the failure response shape: a short human-readable reason.
type errorBody struct {
	Detail string `json:"detail"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError maps a domain error to its status code. Store failures are
// masked; their provider detail lives only in the logs.
func respondError(w http.ResponseWriter, err error) {
	detail := err.Error()
	var storeErr *apperrors.StoreError
	if errors.As(err, &storeErr) {
		detail = "internal server error"
	}
	respondJSON(w, apperrors.HTTPStatus(err), errorBody{Detail: detail})
}

func respondBadRequest(w http.ResponseWriter, detail string) {
	respondJSON(w, http.StatusBadRequest, errorBody{Detail: detail})
}
