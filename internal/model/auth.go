package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the JWT claims carried by every authenticated request.
type UserClaims struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login or registration.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}
