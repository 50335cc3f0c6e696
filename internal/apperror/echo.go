package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// EchoErrorHandler replaces echo's default HTTPErrorHandler so that every
// failure, including ones raised inside echo itself, reaches the client in
// the uniform error shape.
func EchoErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			apiErr = New(he.Code, http.StatusText(he.Code), fmt.Sprint(he.Message), nil)
		} else {
			apiErr = Internal("internal server error", err)
		}
	}

	if c.Request().Method == http.MethodHead {
		if err := c.NoContent(apiErr.Code); err != nil {
			c.Logger().Error(err)
		}
		return
	}

	if err := c.JSON(apiErr.Code, apiErr); err != nil {
		c.Logger().Error(err)
	}
}
