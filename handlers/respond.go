package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"devmasters/middleware"
	"devmasters/query"
	"devmasters/store"
	"devmasters/validation"
)

type errorResponse struct {
	Error      string                 `json:"error"`
	Violations []validation.Violation `json:"violations,omitempty"`
}

// badRequest is a malformed body or path parameter.
type badRequest struct {
	msg string
}

func (e *badRequest) Error() string { return e.msg }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var (
		verr *validation.ValidationError
		qerr *query.BadRequestError
		berr *badRequest
	)
	switch {
	case errors.As(err, &verr):
		status := http.StatusBadRequest
		if verr.OnlyConflicts() {
			status = http.StatusConflict
		}
		writeJSON(w, status, errorResponse{Error: "validation failed", Violations: verr.Violations})
	case errors.As(err, &qerr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: qerr.Error()})
	case errors.As(err, &berr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: berr.Error()})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: store.ErrNotFound.Error()})
	case errors.Is(err, store.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:      store.ErrConflict.Error(),
			Violations: []validation.Violation{{Field: validation.FieldTitle, Reason: validation.ReasonTitleTaken}},
		})
	default:
		log.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
