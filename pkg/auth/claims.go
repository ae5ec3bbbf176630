package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CustomerTokenPayload captures the data available when minting a JWT.
type CustomerTokenPayload struct {
	UserID uuid.UUID
	Email  string
	JTI    string
}

// CustomerClaims represents the typed JWT carried by signed-in shoppers.
type CustomerClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}
