package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/eartune/internal/errors"
	"github.com/vytor/eartune/internal/game"
	"github.com/vytor/eartune/internal/logger"
)

// maxBodyBytes bounds request bodies; a long rhythm take is a few hundred floats.
const maxBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errors.NewBadRequestError("request body is required")
		}
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) && typeErr.Field != "" {
			return errors.NewInvalidInputError(typeErr.Field, fmt.Sprintf("must be %s, got %s", typeErr.Type, typeErr.Value))
		}
		return errors.NewBadRequestError(fmt.Sprintf("invalid JSON body: %v", err))
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewBadRequestError(fmt.Sprintf("invalid id: %q", raw))
	}
	return id, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewBadRequestError(fmt.Sprintf("invalid %s: %q", key, raw))
	}
	return v, nil
}

func gameSubmission(req submitRequest) game.Submission {
	return game.Submission{
		Answer:        req.Answer,
		Taps:          req.UserTaps,
		FrequencyBand: req.FrequencyBand,
		ChangeAmount:  req.ChangeAmount,
	}
}

func routeNotFound(r *http.Request) error {
	return errors.NewNotFoundError("route", r.Method+" "+r.URL.Path)
}
