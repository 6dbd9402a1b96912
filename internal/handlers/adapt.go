package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/handsomefox/flixora/internal/logger"
	"github.com/handsomefox/flixora/internal/views"
)

type HandlerWithErr func(w http.ResponseWriter, r *http.Request) error

type Error struct {
	Status  int
	Message string
	// Details is an optional underlying cause exposed to API clients.
	Details string
}

func (e Error) Error() string {
	return e.Message + " code=" + strconv.FormatInt(int64(e.Status), 10)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func Adapt(h HandlerWithErr) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			var statusErr *Error
			if errors.As(err, &statusErr) {
				writeJSON(w, statusErr.Status, &errorResponse{Error: statusErr.Message, Details: statusErr.Details})
				return
			}
			slog.ErrorContext(r.Context(), "request failed", slog.String("path", r.URL.Path), logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: err.Error()})
		}
	})
}

// AdaptPage is Adapt for HTML routes: errors render the error page.
func AdaptPage(v views.Renderer, h HandlerWithErr) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			status, message := http.StatusInternalServerError, "Something went wrong."
			var statusErr *Error
			if errors.As(err, &statusErr) {
				status, message = statusErr.Status, statusErr.Message
			} else {
				slog.ErrorContext(r.Context(), "page failed", slog.String("path", r.URL.Path), logger.Error(err))
			}
			writeHTML(w, status, v.Error(status, message))
		}
	})
}
