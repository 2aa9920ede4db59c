package dto

import "time"

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterRequest represents self-service account creation
type RegisterRequest struct {
	FirstName string `json:"firstName" form:"first_name" binding:"required,max=150"`
	LastName  string `json:"lastName" form:"last_name" binding:"required,max=150"`
	Username  string `json:"username" form:"username" binding:"required,username"`
	Password  string `json:"password" form:"password" binding:"required,min=8"`
}

// TokenResponse represents session token information
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64     `json:"expiresIn" example:"86400"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// SessionUser describes the logged-in identity and its resolved role.
type SessionUser struct {
	ID                int64  `json:"id"`
	Username          string `json:"username"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Role              string `json:"role" example:"staff" enums:"staff,student,parent"`
	StudentIdentifier string `json:"studentIdentifier,omitempty" example:"STU-1234"`
}

// LoginResponse represents successful authentication response
type LoginResponse struct {
	Token    TokenResponse `json:"token"`
	User     SessionUser   `json:"user"`
	Redirect string        `json:"redirect" example:"/dashboard/staff"`
}

// UserResponse is returned after registration.
type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthPage is the view-model of the login and registration pages.
type AuthPage struct {
	Page          string `json:"page" example:"login"`
	Authenticated bool   `json:"authenticated"`
}
