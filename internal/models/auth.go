package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role identifies the privilege level carried by an access token.
type Role string

// RoleAdmin is the only privileged role; it is granted by the shared passcode.
const RoleAdmin Role = "ADMIN"

// LoginRequest carries the shared admin passcode.
type LoginRequest struct {
	Passcode  string `json:"passcode" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued admin token.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}

// ChangePasscodeRequest replaces the shared admin passcode.
type ChangePasscodeRequest struct {
	OldPasscode string `json:"old_passcode" validate:"required"`
	NewPasscode string `json:"new_passcode" validate:"required,min=4"`
}

// JWTClaims represents the JWT payload for admin tokens.
type JWTClaims struct {
	SessionID string `json:"session_id"`
	Role      Role   `json:"role"`
	jwt.RegisteredClaims
}
