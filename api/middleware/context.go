package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	contextUserIDKey = "auth_user_id"
	contextRoleKey   = "auth_role"
	contextKeyIDKey  = "auth_api_key_id"
)

func SetUserContext(c echo.Context, userID uuid.UUID, role string) {
	c.Set(contextUserIDKey, userID)
	c.Set(contextRoleKey, role)
}

func SetAPIKeyContext(c echo.Context, keyID string) {
	c.Set(contextKeyIDKey, keyID)
}

func UserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	value := c.Get(contextUserIDKey)
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

func RoleFromContext(c echo.Context) (string, bool) {
	value := c.Get(contextRoleKey)
	role, ok := value.(string)
	return role, ok
}

func APIKeyIDFromContext(c echo.Context) (string, bool) {
	value := c.Get(contextKeyIDKey)
	keyID, ok := value.(string)
	return keyID, ok
}
