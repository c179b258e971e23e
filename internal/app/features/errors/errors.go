// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"
)

// Body is the JSON shape of every error response.
type Body struct {
	Status   int    `json:"status"`
	Error    string `json:"error"`
	Message  string `json:"message"`
	Incident string `json:"incident,omitempty"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {status, error, message}.
func WriteError(w http.ResponseWriter, status int, key, message string) {
	WriteJSON(w, status, Body{Status: status, Error: key, Message: message})
}

// Handler serves the fallback JSON error routes.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound answers unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, "error.404", "Not found.")
}

// MethodNotAllowed answers known routes hit with the wrong verb.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusMethodNotAllowed, "error.405", "Method not allowed.")
}
