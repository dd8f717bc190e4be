package presentation

import (
	"fmt"
	"net/http"

	"github.com/Laisky/errors/v2"
	"github.com/labstack/echo/v4"

	"blogd/internal/domain/apperr"
	"blogd/pkg/logger"
)

type ErrorResponse struct {
	Message string         `json:"message"`
	Errors  []apperr.Check `json:"errors,omitempty"`
}

// HTTPErrorHandler renders every error returned by a handler.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "method", c.Request().Method, "path", c.Path(), "err", err)
	}

	c.Response().Header().Set(ReasonTag, body.Message)

	var sendErr error
	if c.Request().Method == http.MethodHead {
		sendErr = c.NoContent(status)
	} else {
		sendErr = c.JSON(status, body)
	}

	if sendErr != nil {
		logger.Error("failed to send error response", "err", sendErr)
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, ErrorResponse{Message: fmt.Sprint(he.Message)}
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, ErrorResponse{Message: http.StatusText(http.StatusInternalServerError)}
	}

	switch appErr.Kind {
	case apperr.KindValidation:
		return http.StatusBadRequest, ErrorResponse{Message: appErr.Message, Errors: appErr.Checks}
	case apperr.KindNotFound:
		return http.StatusNotFound, ErrorResponse{Message: appErr.Message}
	default:
		return http.StatusInternalServerError, ErrorResponse{Message: http.StatusText(http.StatusInternalServerError)}
	}
}
