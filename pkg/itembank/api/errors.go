package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/tendant/itembank/pkg/itembank"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

const internalErrorMessage = "internal server error"

// writeError maps domain errors onto status codes. Causes of 500s are logged
// and never echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "request_id", requestID(r), "error", err)
	}
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}

func classify(err error) (int, string) {
	var notFound *itembank.NotFoundError
	var badFilter *itembank.FilterError
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Error()
	case errors.Is(err, itembank.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.As(err, &badFilter):
		return http.StatusBadRequest, badFilter.Error()
	case errors.Is(err, itembank.ErrInvalidFilter):
		return http.StatusBadRequest, "invalid filter"
	}
	return http.StatusInternalServerError, internalErrorMessage
}
