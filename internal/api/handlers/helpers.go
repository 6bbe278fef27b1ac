package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matiasleandrokruk/termcp/internal/domain/resource"
	"github.com/matiasleandrokruk/termcp/internal/domain/tool"
)

const maxRequestBodyBytes = 1 << 20

type listResponse struct {
	Data any      `json:"data"`
	Meta listMeta `json:"meta"`
}

type listMeta struct {
	Total int `json:"total"`
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func writeList(w http.ResponseWriter, data any, total int) {
	writeJSON(w, http.StatusOK, listResponse{Data: data, Meta: listMeta{Total: total}})
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		http.Error(w, `{"error":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}

// statusForError maps domain errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, tool.ErrToolExecutorNotRegistered), errors.Is(err, resource.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tool.ErrToolValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, resource.ErrInvalidResource):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
