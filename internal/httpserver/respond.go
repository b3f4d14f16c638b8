package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/divaskloset/storefront/internal/domain"
)

// All failures leave the API as {success:false, message}; handlers add
// their own fields on top of ok().
func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message})
}

func ok(c echo.Context, payload echo.Map) error {
	body := echo.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(http.StatusOK, body)
}

// userMessage strips the sentinel prefix ("validation: ", "expired: ", ...)
// so clients see only the human half of a wrapped error.
func userMessage(err error, fallback string) string {
	msg := err.Error()
	if _, after, found := strings.Cut(msg, ": "); found && after != "" {
		return after
	}
	if msg != "" {
		return msg
	}
	return fallback
}

// statusFor maps the domain taxonomy to HTTP. The OTP endpoints override
// notFoundStatus with 400: "no code for this email" is a client mistake
// there, not a missing resource.
func statusFor(err error, notFoundStatus int) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return notFoundStatus
	case errors.Is(err, domain.ErrExpired),
		errors.Is(err, domain.ErrRateLimited),
		errors.Is(err, domain.ErrInvalidCredential):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// serveError logs server faults and hides their detail from the client.
func serveError(c echo.Context, err error, notFoundStatus int, logName string) error {
	status := statusFor(err, notFoundStatus)
	if status == http.StatusInternalServerError {
		c.Logger().Errorf("%s: %v", logName, err)
		return fail(c, status, "internal error")
	}
	return fail(c, status, userMessage(err, "request failed"))
}
