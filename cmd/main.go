package main

import (
	"net/http"
	"os"
	"time"

	"verifai/api/handler"
	apiMiddleware "verifai/api/middleware"
	"verifai/api/routes"
	"verifai/config"
	"verifai/internal/entity"
	"verifai/internal/repository"
	"verifai/internal/service"
	"verifai/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	db := config.ConnectionDb()
	validate := validator.New()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.APIKey{},
		&entity.VerificationToken{},
		&entity.VerificationOutcome{},
	); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	linkSecret := []byte(os.Getenv("SECRET_KEY"))
	if len(linkSecret) == 0 {
		logger.Fatal("SECRET_KEY is required")
	}
	accessSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(accessSecret) == 0 {
		logger.Fatal("JWT_SECRET is required")
	}
	issuer := os.Getenv("JWT_ISSUER")
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}

	accessManager := utils.JWTManager{
		Secret:         accessSecret,
		Issuer:         issuer,
		AccessTokenTTL: 15 * time.Minute,
	}

	tokenRepo := repository.NewVerificationTokenRepository(db)
	outcomeRepo := repository.NewVerificationOutcomeRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)
	userRepo := repository.NewUserRepository(db)

	clock := service.RealClock{}

	var linkSender service.LinkSender
	if apiKey := os.Getenv("RESEND_API_KEY"); apiKey != "" {
		linkSender = service.NewResendLinkSender(apiKey, os.Getenv("EMAIL_FROM"))
	}

	verificationService := service.NewVerificationService(
		tokenRepo,
		outcomeRepo,
		service.LinkTokenCodec{Secret: linkSecret, Issuer: issuer, Clock: clock},
		service.NewStaticGeocoder(logger),
		service.NewGeoRiskEngine(),
		linkSender,
		clock,
		logger,
		service.VerificationConfig{
			LinkTTL:     24 * time.Hour,
			FrontendURL: frontendURL,
			LinkPurpose: service.PurposeVerificationLink,
		},
	)
	authService := service.NewAuthService(userRepo, service.BcryptPasswordHasher{}, accessManager)
	apiKeyService := service.NewAPIKeyService(apiKeyRepo, clock)

	verificationHandler := handler.NewVerificationHandler(verificationService, validate)
	authHandler := handler.NewAuthHandler(authService, validate)
	apiKeyHandler := handler.NewAPIKeyHandler(apiKeyService, validate)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{JWT: &accessManager, Keys: apiKeyService}
	router := routes.NewRouter(app, verificationHandler, authHandler, apiKeyHandler, authMiddleware)
	router.RegisterRoutes()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", addr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
