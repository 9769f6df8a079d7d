package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"kanban-board/logging"
	"kanban-board/models"
	"kanban-board/validation"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response: %v", err)
	}
}

// writeError maps an error kind to its status code. Anything unrecognised is
// a store failure and goes back as 400 with its own message.
func writeError(w http.ResponseWriter, err error) {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		http.Error(w, ve.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrDuplicateEmail):
		http.Error(w, "User with this email already exists", http.StatusBadRequest)
	case errors.Is(err, models.ErrInvalidCredentials):
		http.Error(w, "Invalid email or password", http.StatusBadRequest)
	case errors.Is(err, models.ErrInvalidStatus):
		http.Error(w, "Invalid task status", http.StatusBadRequest)
	case errors.Is(err, models.ErrMissingToken):
		http.Error(w, "Access denied. No token provided.", http.StatusUnauthorized)
	case errors.Is(err, models.ErrInvalidToken):
		http.Error(w, "Invalid token.", http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, "Task not found", http.StatusNotFound)
	default:
		logging.Logger.Errorf("Event ID: STORE_ERROR, Description: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &validation.Error{Message: "request body could not be read"}
	}
	return body, nil
}
