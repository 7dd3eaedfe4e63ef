package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sweetmart/sweetshop/internal/core/domain"
)

const (
	msgUnauthenticated = "Authentication required. Please provide a valid token."
	msgForbidden       = "Access denied. Insufficient permissions."
	msgInternal        = "internal server error"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain
// errors to status codes and renders {"success":false,"message":...}.
// Unexpected errors are logged and never leak their cause to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var (
		ve *domain.ValidationError
		se *domain.InsufficientStockError
	)
	switch {
	case errors.As(err, &ve):
		msg := "Validation failed"
		if len(ve.Fields) > 0 {
			msg = ve.Fields[0].Message
		}
		return http.StatusBadRequest, errorResponse{Message: msg, Errors: ve.Fields}
	case errors.As(err, &se):
		return http.StatusBadRequest, errorResponse{Message: se.Error()}
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusBadRequest, errorResponse{Message: "Insufficient stock"}
	case errors.Is(err, domain.ErrSweetNotFound):
		return http.StatusNotFound, errorResponse{Message: "Sweet not found"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Message: "invalid credentials"}
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, errorResponse{Message: msgUnauthenticated}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Message: msgForbidden}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, errorResponse{Message: "User already exists"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Message: "user not found"}
	case errors.Is(err, echo.ErrNotFound):
		return http.StatusNotFound, errorResponse{Message: fmt.Sprintf("Route %s not found", c.Request().URL.Path)}
	}

	// Echo's own errors: 405 from the router, 429 from the limiter, etc.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("http error")
			return he.Code, errorResponse{Message: msgInternal}
		}
		return he.Code, errorResponse{Message: fmt.Sprint(he.Message)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Message: msgInternal}
}
