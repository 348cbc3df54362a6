package dto

import (
	"encoding/json"
	"time"

	"verifai/internal/entity"
)

type GenerateLinkRequest struct {
	FullName         string `json:"fullName" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Address          string `json:"address" validate:"required"`
	City             string `json:"city" validate:"required"`
	State            string `json:"state" validate:"required"`
	ZipCode          string `json:"zipCode" validate:"required"`
	OrganizationName string `json:"organizationName" validate:"required"`
}

type GenerateLinkResponse struct {
	Message         string        `json:"message"`
	Status          string        `json:"status"`
	TokenID         string        `json:"tokenId"`
	VerificationURL string        `json:"verificationUrl"`
	Token           string        `json:"token"`
	ExpiresAt       time.Time     `json:"expiresAt"`
	ExpiresIn       string        `json:"expiresIn"`
	Recipient       LinkRecipient `json:"recipient"`
}

type LinkRecipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ValidateTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type ValidateTokenResponse struct {
	Message          string           `json:"message"`
	Status           string           `json:"status"`
	VerificationData VerificationData `json:"verification_data"`
}

type VerificationData struct {
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	Address          string `json:"address"`
	City             string `json:"city"`
	State            string `json:"state"`
	ZipCode          string `json:"zipCode"`
	OrganizationName string `json:"organizationName"`
}

type SubmitLocation struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *float64 `json:"accuracy"`
}

type SubmitVerificationRequest struct {
	Token string `json:"token"`

	FullName         string `json:"fullName"`
	Email            string `json:"email" validate:"omitempty,email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	City             string `json:"city"`
	State            string `json:"state"`
	ZipCode          string `json:"zipCode"`
	OrganizationName string `json:"organizationName"`

	Location *SubmitLocation `json:"location"`
	Consent  *bool           `json:"consent"`

	UserAgent        string `json:"userAgent"`
	ScreenResolution string `json:"screenResolution"`
	Timezone         string `json:"timezone"`
}

type SubmitVerificationResponse struct {
	VerificationID      string   `json:"verification_id"`
	Status              string   `json:"status"`
	RiskLevel           string   `json:"risk_level"`
	RiskScore           float64  `json:"risk_score"`
	LocationVerified    bool     `json:"location_verified"`
	DistanceFromAddress *float64 `json:"distance_from_address"`
	Message             string   `json:"message"`
	Timestamp           string   `json:"timestamp"`
}

type DeclineVerificationRequest struct {
	Token string `json:"token" validate:"required"`
}

type RevokeTokenRequest struct {
	TokenID string `json:"tokenId" validate:"required"`
}

type TokenResponse struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	FullName         string     `json:"fullName"`
	OrganizationName string     `json:"organizationName"`
	CreatedAt        time.Time  `json:"createdAt"`
	ExpiresAt        time.Time  `json:"expiresAt"`
	Used             bool       `json:"used"`
	UsedAt           *time.Time `json:"usedAt,omitempty"`
	Status           string     `json:"status"`
	IssuingKeyID     *string    `json:"issuingKeyId,omitempty"`
}

func TokenResponseFromEntity(t *entity.VerificationToken) TokenResponse {
	return TokenResponse{
		ID:               t.ID,
		Email:            t.RecipientEmail,
		FullName:         t.RecipientName,
		OrganizationName: t.OrganizationName,
		CreatedAt:        t.CreatedAt,
		ExpiresAt:        t.ExpiresAt,
		Used:             t.Used,
		UsedAt:           t.UsedAt,
		Status:           string(t.Status),
		IssuingKeyID:     t.IssuingKeyID,
	}
}

func TokenResponsesFromEntities(tokens []entity.VerificationToken) []TokenResponse {
	responses := make([]TokenResponse, 0, len(tokens))
	for i := range tokens {
		responses = append(responses, TokenResponseFromEntity(&tokens[i]))
	}
	return responses
}

type OutcomeResponse struct {
	ID                   string          `json:"id"`
	TokenID              *string         `json:"tokenId,omitempty"`
	ClaimantName         string          `json:"claimantName"`
	ClaimantEmail        string          `json:"claimantEmail"`
	ClaimantPhone        string          `json:"claimantPhone,omitempty"`
	OrganizationName     string          `json:"organizationName,omitempty"`
	ClaimedAddress       string          `json:"claimedAddress"`
	ClaimedLat           float64         `json:"claimedLat"`
	ClaimedLon           float64         `json:"claimedLon"`
	ObservedLat          *float64        `json:"observedLat,omitempty"`
	ObservedLon          *float64        `json:"observedLon,omitempty"`
	ObservedAccuracyM    *float64        `json:"observedAccuracyMeters,omitempty"`
	DistanceMeters       *float64        `json:"distanceMeters,omitempty"`
	RiskLevel            string          `json:"riskLevel"`
	RiskScore            float64         `json:"riskScore"`
	VerificationState    string          `json:"verificationState"`
	RequiresManualReview bool            `json:"requiresManualReview"`
	ConsentGiven         bool            `json:"consentGiven"`
	SecurityMetadata     json.RawMessage `json:"securityMetadata,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
}

func OutcomeResponseFromEntity(o *entity.VerificationOutcome) OutcomeResponse {
	return OutcomeResponse{
		ID:                   o.ID.String(),
		TokenID:              o.TokenID,
		ClaimantName:         o.ClaimantName,
		ClaimantEmail:        o.ClaimantEmail,
		ClaimantPhone:        o.ClaimantPhone,
		OrganizationName:     o.OrganizationName,
		ClaimedAddress:       o.ClaimedAddress,
		ClaimedLat:           o.ClaimedLat,
		ClaimedLon:           o.ClaimedLon,
		ObservedLat:          o.ObservedLat,
		ObservedLon:          o.ObservedLon,
		ObservedAccuracyM:    o.ObservedAccuracyM,
		DistanceMeters:       o.DistanceMeters,
		RiskLevel:            string(o.RiskLevel),
		RiskScore:            o.RiskLevel.Score(),
		VerificationState:    string(o.VerificationState),
		RequiresManualReview: o.RequiresManualReview,
		ConsentGiven:         o.ConsentGiven,
		SecurityMetadata:     json.RawMessage(o.SecurityMetadata),
		CreatedAt:            o.CreatedAt,
	}
}

func OutcomeResponsesFromEntities(outcomes []entity.VerificationOutcome) []OutcomeResponse {
	responses := make([]OutcomeResponse, 0, len(outcomes))
	for i := range outcomes {
		responses = append(responses, OutcomeResponseFromEntity(&outcomes[i]))
	}
	return responses
}

type DashboardStatsResponse struct {
	Stats  DashboardCounters `json:"stats"`
	Recent []OutcomeResponse `json:"recent"`
}

type DashboardCounters struct {
	Total          int64 `json:"total"`
	Verified       int64 `json:"verified"`
	RequiresReview int64 `json:"requiresReview"`
	ActiveTokens   int64 `json:"activeTokens"`
}
