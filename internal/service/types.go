package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Geocoder resolves a claimed address to coordinates. Implementations must
// be deterministic for identical input so distance scoring is reproducible.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat float64, lon float64)
}

// LinkSender delivers a freshly issued verification link to its recipient.
type LinkSender interface {
	SendVerificationLink(ctx context.Context, email string, name string, url string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
