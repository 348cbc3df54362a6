package middleware

import (
	"net/http"
	"strings"

	"verifai/internal/service"
	"verifai/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const apiKeyHeader = "X-API-Key"

type AuthMiddleware struct {
	JWT  *utils.JWTManager
	Keys *service.APIKeyService
}

// RequireAuth admits requests carrying a valid bearer access token.
func (m AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := m.authenticateBearer(c); err != nil {
			return err
		}
		return next(c)
	}
}

// RequireCredential admits either a bearer access token or an API key.
// Issuance and listing are callable both from the dashboard and
// programmatically, so both credential kinds are accepted here.
func (m AuthMiddleware) RequireCredential(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if extractBearerToken(c.Request()) != "" {
			if err := m.authenticateBearer(c); err != nil {
				return err
			}
			return next(c)
		}
		if err := m.authenticateAPIKey(c); err != nil {
			return err
		}
		return next(c)
	}
}

func (m AuthMiddleware) authenticateBearer(c echo.Context) error {
	if m.JWT == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	token := extractBearerToken(c.Request())
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	claims, err := m.JWT.ParseAccessToken(token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	SetUserContext(c, userID, claims.Role)
	return nil
}

func (m AuthMiddleware) authenticateAPIKey(c echo.Context) error {
	if m.Keys == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	rawKey := strings.TrimSpace(c.Request().Header.Get(apiKeyHeader))
	if rawKey == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	key, err := m.Keys.Authenticate(c.Request().Context(), rawKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	SetAPIKeyContext(c, key.ID)
	return nil
}

func extractBearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
