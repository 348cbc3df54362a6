package service

import (
	"time"

	"verifai/internal/entity"
)

type IssueLinkInput struct {
	FullName         string
	Email            string
	Address          string
	City             string
	State            string
	ZipCode          string
	OrganizationName string

	// API key that requested issuance, when present.
	IssuingKeyID *string
}

type IssueLinkResult struct {
	TokenID         string
	SignedToken     string
	VerificationURL string
	ExpiresAt       time.Time
	RecipientName   string
	RecipientEmail  string
}

type ObservedLocation struct {
	Latitude       float64
	Longitude      float64
	AccuracyMeters float64
}

type SubmissionInput struct {
	// Signed link token; empty for direct submissions.
	SignedToken string

	FullName         string
	Email            string
	Phone            string
	Address          string
	City             string
	State            string
	ZipCode          string
	OrganizationName string

	Observed *ObservedLocation
	Consent  bool

	RequestIP        string
	UserAgent        string
	ScreenResolution string
	Timezone         string
}

type SubmissionResult struct {
	OutcomeID         string
	TokenID           *string
	VerificationState entity.VerificationState
	RiskLevel         entity.RiskLevel
	RiskScore         float64
	LocationVerified  bool
	DistanceMeters    *float64
	Message           string
	CreatedAt         time.Time
}

type DashboardStats struct {
	TotalOutcomes  int64
	Verified       int64
	RequiresReview int64
	ActiveTokens   int64
	Recent         []entity.VerificationOutcome
}
