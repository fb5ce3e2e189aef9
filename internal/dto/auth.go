package dto

import "time"

// RegisterRequest carries the registration form fields. The minimum password
// length matches the desktop client's rule.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=5"`
	Email    string `json:"email" binding:"required"`
}

// LoginRequest carries the login form fields.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the issued access token with the account snapshot.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Account   AccountResponse `json:"account"`
}
