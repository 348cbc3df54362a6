package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"verifai/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{service.ErrValidation, http.StatusBadRequest},
		{fmt.Errorf("%w: missing field", service.ErrValidation), http.StatusBadRequest},
		{service.ErrAlreadyUsed, http.StatusBadRequest},
		{service.ErrLinkExpired, http.StatusBadRequest},
		{service.ErrLinkMalformed, http.StatusBadRequest},
		{service.ErrInvalidTransition, http.StatusBadRequest},
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrUnauthorized, http.StatusUnauthorized},
		{service.ErrConflict, http.StatusConflict},
		{errors.New("database down"), http.StatusInternalServerError},
	}

	e := echo.New()
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, writeServiceError(c, tc.err))
		assert.Equal(t, tc.status, rec.Code, "error %q", tc.err)
		assert.Contains(t, rec.Body.String(), `"status":"error"`)
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.c","bogus":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var target struct {
		Email string `json:"email"`
	}
	assert.Error(t, decodeJSON(c, &target))
}
