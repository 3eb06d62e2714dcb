package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/vnstock-cache/pkg/provider"
	"github.com/Sternrassler/vnstock-cache/pkg/stock"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Response is the envelope every API response is wrapped in.
type Response struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	Data       any      `json:"data"`
	Errors     []string `json:"errors"`
	StatusCode int      `json:"statusCode"`
	Timestamp  string   `json:"timestamp"`
}

func newResponse(success bool, status int, message string, data any, errs []string) Response {
	return Response{
		Success:    success,
		Message:    message,
		Data:       data,
		Errors:     errs,
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(timestampLayout),
	}
}

func writeJSON(w http.ResponseWriter, logger zerolog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeSuccess(w http.ResponseWriter, logger zerolog.Logger, data any) {
	writeJSON(w, logger, http.StatusOK, newResponse(true, http.StatusOK, "Operation successful", data, nil))
}

func writeError(w http.ResponseWriter, logger zerolog.Logger, status int, message string, errs ...string) {
	if len(errs) == 0 {
		errs = nil
	}
	writeJSON(w, logger, status, newResponse(false, status, message, nil, errs))
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, stock.ErrInvalidRequest):
		return http.StatusBadRequest
	case provider.KindOf(err) != "":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	var details []string
	if kind := provider.KindOf(err); kind != "" {
		details = append(details, string(kind))
	}
	writeError(w, s.logger, status, err.Error(), details...)
}
