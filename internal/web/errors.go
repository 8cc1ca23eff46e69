package web

// errors.go provides unified error response handling for the API. Every
// error is logged with full detail server-side and returned to the client
// as a compact JSON body carrying a stable machine-readable code.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/contentforge/wxrimport/internal/importer"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError logs the technical error with the request id and writes the
// JSON error response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	code := errorCode(err, statusCode)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	respondErrorJSON(w, statusCode, code, err.Error())
}

// errorCode maps known errors to stable codes clients can branch on.
func errorCode(err error, statusCode int) string {
	switch {
	case errors.Is(err, importer.ErrJobNotFound):
		return "job_not_found"
	case errors.Is(err, importer.ErrTooManyImports):
		return "too_many_imports"
	case statusCode == http.StatusBadRequest:
		return "bad_request"
	default:
		return "internal_error"
	}
}

func respondErrorJSON(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}

// writeJSON encodes v as JSON with the given status code. Encoding errors
// are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}
