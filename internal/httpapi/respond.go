package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/reels/internal/logging"
	"github.com/mesh-intelligence/reels/pkg/types"
)

// Error codes returned in the error envelope.
const (
	codeBadRequest = "BAD_REQUEST"
	codeValidation = "VALIDATION_ERROR"
	codeNotFound   = "NOT_FOUND"
	codeInternal   = "INTERNAL_ERROR"
)

// genericServerError is the only text a store failure ever exposes.
const genericServerError = "internal server error"

// response is the envelope for every JSON body.
type response struct {
	Status    string    `json:"status"`
	Data      any       `json:"data,omitempty"`
	Error     *apiError `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type apiError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body *response) {
	w.Header().Set("Content-Type", "application/json")
	data, err := json.Marshal(body)
	if err != nil {
		logging.Error().Err(err).Msg("marshal response failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("write response failed")
	}
}

func respondData(w http.ResponseWriter, status int, data any) {
	respondJSON(w, status, &response{Status: "success", Data: data, Timestamp: time.Now().UTC()})
}

func respondError(w http.ResponseWriter, status int, code, message string, details []string) {
	respondJSON(w, status, &response{
		Status:    "error",
		Error:     &apiError{Code: code, Message: message, Details: details},
		Timestamp: time.Now().UTC(),
	})
}

// respondErr maps a gateway error onto a status. Store failures are logged
// and reported with a generic message.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, codeValidation, types.ErrValidation.Error(), verr.Messages)
	case errors.Is(err, types.ErrNotFound), errors.Is(err, types.ErrTableNotFound):
		respondError(w, http.StatusNotFound, codeNotFound, err.Error(), nil)
	case errors.Is(err, types.ErrInvalidID), errors.Is(err, types.ErrInvalidData), errors.Is(err, types.ErrUnknownColumn):
		respondError(w, http.StatusBadRequest, codeBadRequest, err.Error(), nil)
	default:
		logging.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		respondError(w, http.StatusInternalServerError, codeInternal, genericServerError, nil)
	}
}
