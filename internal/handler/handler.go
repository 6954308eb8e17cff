package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"libraryhub/internal/auth"
	apperr "libraryhub/internal/errors"
)

// errNoIdentity means a guarded handler ran without the session middleware.
var errNoIdentity = errors.New("no identity on request")

// bindForm binds and validates a form or JSON body. Failures are answered with 400 plain text
// and reported through ok=false.
func bindForm(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.String(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return false, c.String(http.StatusBadRequest, err.Error())
	}
	return true, nil
}

// respondError writes the user-facing message for domain errors. Anything unmapped is
// handed to Echo's error handler as a 500.
func respondError(c echo.Context, err error) error {
	httpErr := apperr.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		return err
	}
	return c.String(httpErr.StatusCode, httpErr.Message)
}

func identity(c echo.Context) (auth.Identity, error) {
	id, ok := auth.IdentityFrom(c.Request().Context())
	if !ok {
		return auth.Identity{}, errNoIdentity
	}
	return id, nil
}
