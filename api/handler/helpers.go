package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"verifai/internal/service"

	"github.com/labstack/echo/v4"
)

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"error": err.Error(), "status": "error"})
}

func writeServiceError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrAlreadyUsed),
		errors.Is(err, service.ErrLinkExpired),
		errors.Is(err, service.ErrLinkMalformed),
		errors.Is(err, service.ErrInvalidTransition):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	}
	return writeError(c, status, err)
}

func clientIP(c echo.Context) string {
	return c.RealIP()
}
