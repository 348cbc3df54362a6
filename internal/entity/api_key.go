package entity

import (
	"time"

	"gorm.io/datatypes"
)

// APIKey grants programmatic access to link issuance and listing.
// The raw key is shown once at creation; only its SHA-256 hash is stored.
type APIKey struct {
	ID      string `gorm:"type:varchar(64);primaryKey"`
	Name    string `gorm:"type:varchar(255);not null"`
	Company string `gorm:"type:varchar(255);not null"`

	KeyPrefix string `gorm:"type:varchar(32);not null"`
	KeyHash   string `gorm:"type:varchar(64);uniqueIndex;not null"`

	Active bool `gorm:"not null;default:true"`

	CreatedAt  time.Time
	ExpiresAt  *time.Time
	LastUsedAt *time.Time
	UsageCount int64 `gorm:"not null;default:0"`

	Permissions datatypes.JSON
	RateLimit   int    `gorm:"not null;default:1000"`
	Environment string `gorm:"type:varchar(32);not null;default:'production'"`
}

// Usable reports whether the key may authenticate a request.
func (k *APIKey) Usable(now time.Time) bool {
	if !k.Active {
		return false
	}
	return k.ExpiresAt == nil || k.ExpiresAt.After(now)
}
