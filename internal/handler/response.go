package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickride/internal/repository"
	"quickride/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidDriverName),
		errors.Is(err, service.ErrInvalidDriverIDNumber),
		errors.Is(err, service.ErrInvalidDriverPhone),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, repository.ErrAlreadyClaimed):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, repository.ErrDriverExists):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
