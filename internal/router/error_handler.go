package router

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "timesheet/internal/errors"
)

// HTTPErrorHandler renders every error as the uniform JSON body. Domain errors are mapped
// by status; echo errors keep their status; anything else is logged and hidden behind a 500.
func HTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		httpErr := apperrors.MapErrorToHTTP(err)
		var echoErr *echo.HTTPError
		if httpErr.StatusCode == http.StatusInternalServerError && errors.As(err, &echoErr) {
			httpErr = apperrors.NewHTTPError(echoErr.Code, echoMessage(echoErr))
		}

		if httpErr.StatusCode >= http.StatusInternalServerError {
			log.Error("Unhandled error",
				zap.Error(err),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(httpErr.StatusCode)
		} else {
			err = c.JSON(httpErr.StatusCode, httpErr.Body)
		}
		if err != nil {
			log.Error("Failed to send error response", zap.Error(err))
		}
	}
}

func echoMessage(he *echo.HTTPError) string {
	switch m := he.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	}
	return http.StatusText(he.Code)
}
