package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julianstephens/unidash/internal/dashboard"
	"github.com/julianstephens/unidash/internal/logger"
)

// maxBody caps request bodies; the whole document is well below it.
const maxBody = 4 << 20

type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response", "error", err)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, code int, kind, msg string) {
	respondJSON(w, code, errorBody{Error: kind, Message: msg, RequestID: GetRequestID(r.Context())})
}

// respondServiceError maps dashboard errors to status codes.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, dashboard.ErrTaskNotFound):
		respondError(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, dashboard.ErrInvalidTask), errors.Is(err, dashboard.ErrInvalidInput):
		respondError(w, r, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, dashboard.ErrNothingStaged):
		respondError(w, r, http.StatusNotFound, "nothing_staged", err.Error())
	default:
		logger.Error("Request failed", "request_id", GetRequestID(r.Context()), "path", r.URL.Path, "error", err)
		respondError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

// decode reads a JSON body into v and answers 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respondError(w, r, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return false
	}
	return true
}
