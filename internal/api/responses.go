package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	app_errors "chemibot/backend/internal/errors"
)

// This file contains shared DTOs for API responses and the helpers that write them.

// ErrorResponse is the JSON body of every error. The field is named detail because
// the web client reads it under that key.
type ErrorResponse struct {
	Error string `json:"detail" example:"Model is busy or loading. Please retry."`
}

// StatusResponse is a generic status body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// MessageResponse is returned by the auth endpoints.
type MessageResponse struct {
	Msg   string `json:"msg" example:"Login success"`
	Email string `json:"email,omitempty" example:"student@example.com"`
}

// BannerResponse is returned by the root endpoint.
type BannerResponse struct {
	Status    string   `json:"status" example:"Chemistry Bot API running"`
	Endpoints []string `json:"endpoints"`
}

const unavailableMessage = "Model is busy or loading. Please retry."

// respondWithError maps business-layer errors to HTTP status codes. Internal details
// are logged, never returned.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, app_errors.ErrConflict):
		statusCode = http.StatusBadRequest
		message = "User exists"
	case errors.Is(err, app_errors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		message = "Invalid credentials"
	case errors.Is(err, app_errors.ErrUnavailable):
		statusCode = http.StatusServiceUnavailable
		message = unavailableMessage
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	default:
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// decodeAndValidate reads a JSON body into payload and checks its validate tags.
func decodeAndValidate(r *http.Request, payload interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation)
	}
	return validateRequest(payload)
}
