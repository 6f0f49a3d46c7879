package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-webdialog/pkg/dialog"
	"github.com/goliatone/go-webdialog/pkg/render"
	"github.com/goliatone/go-webdialog/pkg/theming"
)

// HTTPError is an error that carries its response status.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError attaches a status code to an error.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// statusFor maps pipeline errors to response codes.
func statusFor(err error) int {
	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.StatusCode()
	case errors.Is(err, dialog.ErrDialogNotFound):
		return http.StatusNotFound
	case errors.Is(err, render.ErrRendererNotFound), errors.Is(err, theming.ErrThemeNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError sends a JSON error body. Internal failures are reported by
// status text only; the cause goes to the log.
func writeError(w http.ResponseWriter, r *http.Request, code int, err error) {
	message := http.StatusText(code)
	if code < http.StatusInternalServerError && err != nil {
		message = err.Error()
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error:     message,
		RequestID: RequestIDFrom(r.Context()),
	})
}
