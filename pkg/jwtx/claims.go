package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default credential TTLs. Short access tokens bound the damage of a leaked
// bearer token; the refresh token carries the long-lived session.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Kind names which of the two credential families a token belongs to. Each
// kind signs with its own key, and the kind is also embedded as the "use"
// claim so a token can never be replayed as the other kind.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims are the signed contents of both credential kinds. Keep changes
// additive; anything already issued has to keep verifying.
type Claims struct {
	jwt.RegisteredClaims

	// Use is the credential kind ("access" or "refresh").
	Use string `json:"use"`

	// Contact is the user's contact identifier (email).
	Contact string `json:"contact,omitempty"`

	// DisplayName is the user's display name, carried so the userinfo
	// endpoint can answer without a store round trip if it wants to.
	DisplayName string `json:"display_name,omitempty"`
}

// newClaims builds minimally-correct claims for a credential. All time
// fields derive from the single now value passed in.
func newClaims(kind Kind, subject string, profile Profile, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Use:         string(kind),
		Contact:     profile.Contact,
		DisplayName: profile.DisplayName,
	}
}

// Profile is the small claim set carried beside the subject.
type Profile struct {
	Contact     string
	DisplayName string
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
