package routes

import (
	"time"

	"verifai/api/handler"
	"verifai/api/middleware"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Verification   *handler.VerificationHandler
	Auth           *handler.AuthHandler
	APIKeys        *handler.APIKeyHandler
	AuthMiddleware middleware.AuthMiddleware
	AuthRate       *middleware.RateLimiter
	SubmitRate     *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	verificationHandler *handler.VerificationHandler,
	authHandler *handler.AuthHandler,
	apiKeyHandler *handler.APIKeyHandler,
	authMiddleware middleware.AuthMiddleware,
) *Router {
	return &Router{
		Echo:           e,
		Verification:   verificationHandler,
		Auth:           authHandler,
		APIKeys:        apiKeyHandler,
		AuthMiddleware: authMiddleware,
		AuthRate:       middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
		SubmitRate:     middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	e.POST("/api/auth/register", r.Auth.Register, r.AuthRate.Middleware())
	e.POST("/api/auth/login", r.Auth.Login, r.AuthRate.Middleware())
	e.GET("/api/auth/me", r.Auth.Me, r.AuthMiddleware.RequireAuth)

	// Public, recipient-facing endpoints.
	e.POST("/api/validate-token", r.Verification.ValidateToken, r.SubmitRate.Middleware())
	e.POST("/api/submit-verification", r.Verification.Submit, r.SubmitRate.Middleware())
	e.POST("/api/verification-declined", r.Verification.Decline, r.SubmitRate.Middleware())

	// Credentialed (dashboard session or API key).
	e.POST("/api/generate-verification-link", r.Verification.GenerateLink, r.AuthMiddleware.RequireCredential)
	e.POST("/api/revoke-token", r.Verification.RevokeToken, r.AuthMiddleware.RequireCredential)
	e.GET("/api/verification-tokens", r.Verification.ListTokens, r.AuthMiddleware.RequireCredential)
	e.GET("/api/verifications", r.Verification.ListOutcomes, r.AuthMiddleware.RequireCredential)
	e.GET("/api/dashboard-stats", r.Verification.DashboardStats, r.AuthMiddleware.RequireAuth)

	// Key management, admin only.
	e.GET("/api/api-keys", r.APIKeys.List, r.AuthMiddleware.RequireAuth, middleware.RequireRole("admin"))
	e.POST("/api/api-keys", r.APIKeys.Create, r.AuthMiddleware.RequireAuth, middleware.RequireRole("admin"))
	e.PUT("/api/api-keys/:id", r.APIKeys.Update, r.AuthMiddleware.RequireAuth, middleware.RequireRole("admin"))
	e.DELETE("/api/api-keys/:id", r.APIKeys.Deactivate, r.AuthMiddleware.RequireAuth, middleware.RequireRole("admin"))
}
