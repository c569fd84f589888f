package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims defines the access token payload. Tokens are issued by the department
// identity provider; this API only verifies them.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
