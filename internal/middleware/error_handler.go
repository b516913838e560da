package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"cardpay_api/internal/models"
)

// JSONErrorHandler maps domain error kinds and Echo HTTP errors to JSON
// responses of the form {"error": message}, so handlers stay free of status
// codes
func JSONErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	var appErr *models.AppError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &appErr):
		code = statusForKind(appErr.Kind)
		message = appErr.Message
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	}

	c.Logger().Error(err)

	if jsonErr := c.JSON(code, map[string]string{"error": message}); jsonErr != nil {
		c.Logger().Error(jsonErr)
	}
}

func statusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.ErrKindValidation, models.ErrKindSignature, models.ErrKindDataIntegrity:
		return http.StatusBadRequest
	case models.ErrKindGateway:
		return http.StatusBadGateway
	case models.ErrKindPersistence:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
