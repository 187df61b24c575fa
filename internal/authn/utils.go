package authn

import (
	"errors"

	"github.com/golang-jwt/jwt"
)

var ErrInvalidJWT = errors.New("invalid jwt token")
var ErrInvalidClaims = errors.New("invalid claims")

type Claims struct {
	jwt.StandardClaims
	Username    string `json:"preferred_username"`
	RealmAccess struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

// HasRole reports whether the realm roles include role.
func (c Claims) HasRole(role string) bool {
	for _, r := range c.RealmAccess.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ParseClaims decodes the token claims. Signatures are verified by the
// gateway in front of this service, so only decoding errors are reported.
func ParseClaims(token string) (Claims, error) {
	claims := Claims{}
	if t, err := jwt.ParseWithClaims(token, &claims, nil); err != nil {
		if _, ok := err.(*jwt.ValidationError); !ok {
			return claims, ErrInvalidJWT
		}

		if t == nil {
			return claims, ErrInvalidClaims
		}
	}
	return claims, nil
}
