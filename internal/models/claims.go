package models

import "github.com/golang-jwt/jwt/v5"

// OrganizerClaims are the JWT claims issued by the external auth
// service. This service only verifies them; it never mints tokens.
type OrganizerClaims struct {
	OrganizerID uint   `json:"organizer_id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}
