package handler

import (
	"net/http"
	"time"

	"verifai/api/middleware"
	"verifai/internal/dto"
	"verifai/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type VerificationHandler struct {
	Service  *service.VerificationService
	Validate *validator.Validate
}

func NewVerificationHandler(svc *service.VerificationService, validate *validator.Validate) *VerificationHandler {
	return &VerificationHandler{Service: svc, Validate: validate}
}

func (h *VerificationHandler) GenerateLink(c echo.Context) error {
	var req dto.GenerateLinkRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	input := service.IssueLinkInput{
		FullName:         req.FullName,
		Email:            req.Email,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		ZipCode:          req.ZipCode,
		OrganizationName: req.OrganizationName,
	}
	if keyID, ok := middleware.APIKeyIDFromContext(c); ok {
		input.IssuingKeyID = &keyID
	}

	result, err := h.Service.IssueLink(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.GenerateLinkResponse{
		Message:         "Verification link generated successfully",
		Status:          "success",
		TokenID:         result.TokenID,
		VerificationURL: result.VerificationURL,
		Token:           result.SignedToken,
		ExpiresAt:       result.ExpiresAt,
		ExpiresIn:       "24 hours",
		Recipient: dto.LinkRecipient{
			Name:  result.RecipientName,
			Email: result.RecipientEmail,
		},
	})
}

func (h *VerificationHandler) ValidateToken(c echo.Context) error {
	var req dto.ValidateTokenRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	claims, err := h.Service.ValidateLink(c.Request().Context(), req.Token)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ValidateTokenResponse{
		Message: "Token is valid",
		Status:  "success",
		VerificationData: dto.VerificationData{
			FullName:         claims.FullName,
			Email:            claims.Email,
			Address:          claims.Address,
			City:             claims.City,
			State:            claims.State,
			ZipCode:          claims.ZipCode,
			OrganizationName: claims.OrganizationName,
		},
	})
}

func (h *VerificationHandler) Submit(c echo.Context) error {
	var req dto.SubmitVerificationRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	result, err := h.Service.Submit(c.Request().Context(), submissionInput(c, req))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, submissionResponse(result))
}

func (h *VerificationHandler) Decline(c echo.Context) error {
	var req dto.DeclineVerificationRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	input := service.SubmissionInput{
		SignedToken: req.Token,
		RequestIP:   clientIP(c),
		UserAgent:   c.Request().UserAgent(),
	}
	if _, err := h.Service.Decline(c.Request().Context(), input); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Verification decline recorded",
		"status":  "success",
	})
}

func (h *VerificationHandler) RevokeToken(c echo.Context) error {
	var req dto.RevokeTokenRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	if err := h.Service.Revoke(c.Request().Context(), req.TokenID); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Token revoked successfully",
		"status":  "success",
	})
}

func (h *VerificationHandler) ListTokens(c echo.Context) error {
	tokens, err := h.Service.ListTokens(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	responses := dto.TokenResponsesFromEntities(tokens)
	return c.JSON(http.StatusOK, map[string]any{
		"tokens":      responses,
		"total_count": len(responses),
	})
}

func (h *VerificationHandler) ListOutcomes(c echo.Context) error {
	ctx := c.Request().Context()

	if keyID, ok := middleware.APIKeyIDFromContext(c); ok {
		outcomes, err := h.Service.ListOutcomesForKey(ctx, keyID)
		if err != nil {
			return writeServiceError(c, err)
		}
		responses := dto.OutcomeResponsesFromEntities(outcomes)
		return c.JSON(http.StatusOK, map[string]any{
			"verifications": responses,
			"total_count":   len(responses),
		})
	}

	outcomes, err := h.Service.ListOutcomes(ctx)
	if err != nil {
		return writeServiceError(c, err)
	}
	responses := dto.OutcomeResponsesFromEntities(outcomes)
	return c.JSON(http.StatusOK, map[string]any{
		"verifications": responses,
		"total_count":   len(responses),
	})
}

func (h *VerificationHandler) DashboardStats(c echo.Context) error {
	stats, err := h.Service.Stats(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.DashboardStatsResponse{
		Stats: dto.DashboardCounters{
			Total:          stats.TotalOutcomes,
			Verified:       stats.Verified,
			RequiresReview: stats.RequiresReview,
			ActiveTokens:   stats.ActiveTokens,
		},
		Recent: dto.OutcomeResponsesFromEntities(stats.Recent),
	})
}

func (h *VerificationHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func submissionInput(c echo.Context, req dto.SubmitVerificationRequest) service.SubmissionInput {
	input := service.SubmissionInput{
		SignedToken:      req.Token,
		FullName:         req.FullName,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		ZipCode:          req.ZipCode,
		OrganizationName: req.OrganizationName,
		Consent:          req.Consent == nil || *req.Consent,
		RequestIP:        clientIP(c),
		UserAgent:        req.UserAgent,
		ScreenResolution: req.ScreenResolution,
		Timezone:         req.Timezone,
	}
	if input.UserAgent == "" {
		input.UserAgent = c.Request().UserAgent()
	}
	if req.Location != nil && req.Location.Latitude != nil && req.Location.Longitude != nil {
		observed := service.ObservedLocation{
			Latitude:  *req.Location.Latitude,
			Longitude: *req.Location.Longitude,
		}
		if req.Location.Accuracy != nil {
			observed.AccuracyMeters = *req.Location.Accuracy
		}
		input.Observed = &observed
	}
	return input
}

func submissionResponse(result *service.SubmissionResult) dto.SubmitVerificationResponse {
	return dto.SubmitVerificationResponse{
		VerificationID:      result.OutcomeID,
		Status:              string(result.VerificationState),
		RiskLevel:           string(result.RiskLevel),
		RiskScore:           result.RiskScore,
		LocationVerified:    result.LocationVerified,
		DistanceFromAddress: result.DistanceMeters,
		Message:             result.Message,
		Timestamp:           result.CreatedAt.Format(time.RFC3339),
	}
}
