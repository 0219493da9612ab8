package utils // package utils provides helper functions for token creation and hashing

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionToken represents a signed JWT session token along with its expiry.
// Sessions are stateless: nothing is persisted server-side and there is no
// revocation: a token stays valid until its natural expiry even after the
// client "logs out" by discarding it. Re-login is the only way a changed
// account (or role) becomes visible; this is a documented limitation.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for an account. The claims
// carry the account id (sub), the role, issued-at and expiry. ttlHours is
// 24 in production config; downstream middleware trusts the role claim
// without re-reading the accounts table.
func NewSessionToken(secret string, accountID uint64, role string, ttlHours int) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlHours) * time.Hour)
	claims := jwt.MapClaims{
		"sub":  accountID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}
