package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AdminClaims is the token minted by the identity provider for back-office
// users. The subject carries the admin id.
type AdminClaims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// AdminID returns the token subject.
func (c *AdminClaims) AdminID() string {
	if c == nil {
		return ""
	}
	return c.Subject
}
