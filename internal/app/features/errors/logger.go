// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorLogger records unexpected faults for operators. Callers send the
// client only a generic message and the incident id returned here.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger wraps logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// Log writes the fault at Error level and returns its incident id.
func (e *ErrorLogger) Log(r *http.Request, where string, err error, fields ...zap.Field) string {
	incident := uuid.NewString()
	all := append([]zap.Field{
		zap.String("incident", incident),
		zap.String("where", where),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}, fields...)
	e.log.Error("request failed", all...)
	return incident
}

// Fail logs err and writes a generic 500 body carrying the incident id.
func (e *ErrorLogger) Fail(w http.ResponseWriter, r *http.Request, where string, err error, key, message string) {
	incident := e.Log(r, where, err)
	WriteJSON(w, http.StatusInternalServerError, Body{
		Status:   http.StatusInternalServerError,
		Error:    key,
		Message:  message,
		Incident: incident,
	})
}
