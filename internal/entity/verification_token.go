package entity

import (
	"time"
)

type TokenStatus string

const (
	TokenStatusActive    TokenStatus = "active"
	TokenStatusCompleted TokenStatus = "completed"
	TokenStatusDeclined  TokenStatus = "declined"
	TokenStatusRevoked   TokenStatus = "revoked"
)

// VerificationToken is the durable record behind a single verification link.
// Rows are append-only: a token is created once and transitions out of
// "active" at most once. Completed, declined and revoked are all terminal.
type VerificationToken struct {
	ID          string `gorm:"type:varchar(64);primaryKey"`
	SignedToken string `gorm:"type:text;not null"`

	RecipientEmail   string `gorm:"type:varchar(255);not null"`
	RecipientName    string `gorm:"type:varchar(255);not null"`
	OrganizationName string `gorm:"type:varchar(255);not null"`

	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"not null"`

	Used   bool `gorm:"not null;default:false"`
	UsedAt *time.Time

	Status TokenStatus `gorm:"type:varchar(16);not null;default:'active';index"`

	// API key that requested issuance, when the link was created
	// programmatically. Lookup-only, no ownership.
	IssuingKeyID *string `gorm:"type:varchar(64);index"`
}

// Consumable reports whether the token can still be completed or declined.
func (t *VerificationToken) Consumable(now time.Time) bool {
	return t.Status == TokenStatusActive && !t.Used && t.ExpiresAt.After(now)
}
