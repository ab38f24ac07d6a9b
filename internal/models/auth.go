package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the access token payload issued by the auth backend.
type JWTClaims struct {
	UserID   int        `json:"userId"`
	Username string     `json:"username"`
	Roles    []UserRole `json:"roles"`
	jwt.RegisteredClaims
}
