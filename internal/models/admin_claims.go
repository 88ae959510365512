package models

import "github.com/golang-jwt/jwt/v5"

// AdminClaims are the claims carried by access tokens of the identity service
type AdminClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"token_type,omitempty"`
}

// ActorID is the user recorded in the audit trail. Older tokens only set sub.
func (c *AdminClaims) ActorID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}
