package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/UnknownOlympus/meridian/internal/geomatch"
	"github.com/UnknownOlympus/meridian/internal/ingest"
	"github.com/UnknownOlympus/meridian/internal/service"
	"github.com/gin-gonic/gin"
)

var (
	errInvalidRequest = errors.New("invalid request")
	errInvalidUpload  = errors.New("invalid upload")
)

// respondError maps err to a status code and writes the error envelope.
// Unexpected errors are logged and hidden behind a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	status, code := classify(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		h.log.ErrorContext(c.Request.Context(), "Request failed", "path", c.FullPath(), "error", err)
		message = "the server encountered a problem and could not process your request"
	}

	c.AbortWithStatusJSON(status, envelope{"error": errorBody{Code: code, Message: message}})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errInvalidRequest), errors.Is(err, geomatch.ErrInvalidParameter):
		return http.StatusBadRequest, "invalid_parameter"
	case errors.Is(err, errInvalidUpload):
		return http.StatusBadRequest, "invalid_upload"
	case errors.Is(err, service.ErrTechnicianNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ingest.ErrUnresolvedColumns), errors.Is(err, ingest.ErrEmptySheet):
		return http.StatusUnprocessableEntity, "unresolved_columns"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
