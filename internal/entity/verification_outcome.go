package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RiskLevel string

const (
	RiskVeryLow  RiskLevel = "very_low"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// Score maps a risk band to its ordinal score.
func (r RiskLevel) Score() float64 {
	switch r {
	case RiskVeryLow:
		return 0.1
	case RiskLow:
		return 0.3
	case RiskMedium:
		return 0.5
	case RiskHigh:
		return 0.7
	case RiskVeryHigh:
		return 0.9
	}
	return 0.9
}

// RequiresManualReview is true for the high and very_high bands.
func (r RiskLevel) RequiresManualReview() bool {
	return r.Score() >= RiskHigh.Score()
}

type VerificationState string

const (
	StateVerified           VerificationState = "verified"
	StateRequiresReview     VerificationState = "requires_review"
	StateManualVerification VerificationState = "requires_manual_verification"
	StateDeclinedByUser     VerificationState = "declined_by_user"
)

// VerificationOutcome is one submission result (including declines).
// Records are inserted once and never mutated.
type VerificationOutcome struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	// Back-reference to the link that produced this submission. Nil for
	// direct submissions not tied to a link.
	TokenID *string `gorm:"type:varchar(64);index"`

	ClaimantName     string `gorm:"type:varchar(255);not null"`
	ClaimantEmail    string `gorm:"type:varchar(255);not null"`
	ClaimantPhone    string `gorm:"type:varchar(64)"`
	OrganizationName string `gorm:"type:varchar(255)"`
	ClaimedAddress   string `gorm:"type:text;not null"`

	ClaimedLat float64 `gorm:"not null"`
	ClaimedLon float64 `gorm:"not null"`

	ObservedLat       *float64
	ObservedLon       *float64
	ObservedAccuracyM *float64

	// Nil only when no observed coordinates were supplied.
	DistanceMeters *float64

	RiskLevel            RiskLevel         `gorm:"type:varchar(16);not null"`
	VerificationState    VerificationState `gorm:"type:varchar(32);not null"`
	RequiresManualReview bool              `gorm:"not null"`
	ConsentGiven         bool              `gorm:"not null"`

	// Device and request context captured at submission time
	// (user agent, screen resolution, timezone, request IP).
	SecurityMetadata datatypes.JSON

	CreatedAt time.Time
}
