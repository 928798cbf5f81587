package auth

import "github.com/golang-jwt/jwt/v4"

const tokenTypeAccess = "access"

// JWTClaims are the claims carried by an access token
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}
