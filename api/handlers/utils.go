package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/EO-DataHub/eodhp-group-services/api/views"
	"github.com/EO-DataHub/eodhp-group-services/db"
	"github.com/rs/zerolog"
)

// statusFor maps store errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, db.ErrGroupNotFound), errors.Is(err, db.ErrNotMember), errors.Is(err, db.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// notFoundMessage returns the client facing message for a not found error.
func notFoundMessage(err error) error {
	switch {
	case errors.Is(err, db.ErrGroupNotFound):
		return errors.New("group not found")
	case errors.Is(err, db.ErrUserNotFound):
		return errors.New("user not found")
	default:
		return errors.New("user is not a member of the group")
	}
}

// writeHTML renders into a buffer first so that a template failure never
// leaves a half written page.
func writeHTML(w http.ResponseWriter, r *http.Request, status int, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to render page")
		writeErrorPage(w, r, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeErrorPage(w http.ResponseWriter, r *http.Request, status int) {
	var buf bytes.Buffer
	if err := views.RenderErrorPage(&buf, status); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to render error page")
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
