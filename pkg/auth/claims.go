package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AdminTokenPayload captures the data available when minting an admin JWT.
type AdminTokenPayload struct {
	AdminID uuid.UUID
	Email   string
	// JTI doubles as the Redis session identifier; generated when empty.
	JTI string
}

// AdminTokenClaims represents the typed JWT issued to authenticated admins.
type AdminTokenClaims struct {
	AdminID uuid.UUID `json:"admin_id"`
	Email   string    `json:"email"`
	jwt.RegisteredClaims
}
