// Package api is the HTTP boundary of the site server. Every response is
// the same envelope — status, message, data — and this package is the
// single place where internal failures become HTTP statuses.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pacsforge/siteserver/pkg/dbpool"
	"github.com/pacsforge/siteserver/pkg/document"
	"github.com/pacsforge/siteserver/pkg/query"
	"github.com/pacsforge/siteserver/pkg/session"
)

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(w http.ResponseWriter, code int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(env)
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	respond(w, code, envelope{Status: "ok", Data: data})
}

func writeError(w http.ResponseWriter, code int, message string) {
	respond(w, code, envelope{Status: "error", Message: message})
}

// writeFailure maps an internal error onto an HTTP status. Schema
// violations are 422, unknown rows 404, an exhausted pool 503 with a
// retry hint, authentication failures 401. Anything unclassified is a
// 500 whose detail goes to the log, not to the client.
func writeFailure(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, document.ErrInvalid):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, query.ErrBadFilter):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, query.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, dbpool.ErrExhausted):
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, "no database connection available, retry later")
	case errors.Is(err, session.ErrBadToken),
		errors.Is(err, session.ErrNotFound),
		errors.Is(err, ErrBadCredentials):
		writeError(w, http.StatusUnauthorized, "authentication required")
	default:
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
