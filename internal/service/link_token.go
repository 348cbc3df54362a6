package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PurposeVerificationLink is the purpose tag under which verification links
// are signed. Tokens signed for one purpose never validate under another,
// even with the same key.
const PurposeVerificationLink = "verification-link"

// LinkClaims is the identity payload embedded in a signed verification link.
type LinkClaims struct {
	TokenID          string `json:"tid"`
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	Address          string `json:"address"`
	City             string `json:"city"`
	State            string `json:"state"`
	ZipCode          string `json:"zipCode"`
	OrganizationName string `json:"organizationName"`
	Purpose          string `json:"purpose"`
	jwt.RegisteredClaims
}

// LinkTokenCodec turns a LinkClaims payload into an opaque tamper-evident
// string and back. Tokens carry their issuance time; expiry is judged at
// decode time against the caller's max age, not baked into the token.
type LinkTokenCodec struct {
	Secret []byte
	Issuer string
	Clock  Clock
}

func (c LinkTokenCodec) Encode(claims LinkClaims, purpose string) (string, error) {
	now := c.now()
	claims.Purpose = purpose
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:   c.Issuer,
		Subject:  claims.TokenID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.Secret)
}

// Decode verifies the signature and purpose, then checks the embedded
// issuance time against maxAge. A maxAge of zero disables the age check.
func (c LinkTokenCodec) Decode(tokenString string, purpose string, maxAge time.Duration) (*LinkClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &LinkClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrLinkMalformed
		}
		return c.Secret, nil
	})
	if err != nil {
		return nil, ErrLinkMalformed
	}
	claims, ok := parsed.Claims.(*LinkClaims)
	if !ok || !parsed.Valid {
		return nil, ErrLinkMalformed
	}
	if claims.Purpose != purpose {
		return nil, ErrLinkMalformed
	}
	if claims.IssuedAt == nil {
		return nil, ErrLinkMalformed
	}
	if maxAge > 0 && c.now().Sub(claims.IssuedAt.Time) > maxAge {
		return nil, ErrLinkExpired
	}
	return claims, nil
}

func (c LinkTokenCodec) now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock.Now()
}
