package models

import "time"

// User represents an account that can log into the dashboard.
type User struct {
	ID        string    `json:"id" example:"admin"`
	Name      string    `json:"name" example:"관리자"`
	Password  string    `json:"password,omitempty" example:""`
	Role      string    `json:"role" example:"admin"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// Roles understood by the role middleware.
const (
	RoleAdmin  = "admin"
	RoleWorker = "worker"
	RoleViewer = "viewer"
)

// Session represents an active login session for a device.
type Session struct {
	UserID                string    `json:"user_id" example:"admin"`
	SessionID             string    `json:"session_id" example:"c2f0b3e2-8f52-4d6e-9a1b-6a86a2a0f001"`
	Role                  string    `json:"role" example:"admin"`
	HostName              string    `json:"host_name" example:"line1-kiosk"`
	IPAddress             string    `json:"ip_address" example:"10.0.3.21"`
	Timestamp             time.Time `json:"timestamp" example:"2024-01-15T10:30:00Z"`
	ExpiresAt             time.Time `json:"expires_at" example:"2024-01-15T10:45:00Z"`
	RefreshToken          string    `json:"refresh_token,omitempty" example:""`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at,omitempty" example:"2024-01-30T10:30:00Z"`
}

// Actor is the request-scoped identity attached by the auth middleware.
// Handlers read it from the gin context instead of any process-wide state.
type Actor struct {
	UserID string `json:"user_id" example:"admin"`
	Name   string `json:"name" example:"관리자"`
	Role   string `json:"role" example:"admin"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	UserID   string `json:"user_id" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"1234"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Message      string `json:"message" example:"User successfully logged in"`
	AccessToken  string `json:"access_token" example:"eyJhbGciOi..."`
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOi..."`
	SessionID    string `json:"session_id" example:"c2f0b3e2-8f52-4d6e-9a1b-6a86a2a0f001"`
	User         Actor  `json:"user"`
}

// ErrorResponse is the common error envelope.
type ErrorResponse struct {
	Error string `json:"error" example:"Invalid session"`
}

// MessageResponse is the common success envelope.
type MessageResponse struct {
	Message string `json:"message" example:"saved"`
}
