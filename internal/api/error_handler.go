package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/vytor/eartune/internal/errors"
	"github.com/vytor/eartune/internal/logger"
)

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		// Wrap unknown errors as internal errors
		appErr = errors.NewInternalError(err)
	}

	// Log based on status code
	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	if err := json.NewEncoder(w).Encode(map[string]errorBody{
		"error": {Code: appErr.Code, Message: appErr.Message, Details: appErr.Details},
	}); err != nil {
		log.Error("failed to encode error response: %v", err)
	}
}
