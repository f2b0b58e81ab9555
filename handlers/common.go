package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tdempsey/RainbowRead250813/storage"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, APIResponse{Success: true, Data: data})
}

// writeError maps the storage error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var ve *storage.ValidationError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrDuplicateURL):
		status = http.StatusConflict
	case errors.Is(err, storage.ErrReservedCategory):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, APIResponse{Success: false, Error: err.Error()})
}
