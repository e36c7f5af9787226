package models

import "time"

// Credentials holds the username/password pair for signing in.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Identity describes the signed-in user as decoded from the access token.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Session is the authenticated state bound to this console profile.
// It is owned by the session manager and read-only everywhere else.
type Session struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Identity     Identity  `json:"identity"`
}

// LoginData is the payload inside a successful /auth/login envelope.
type LoginData struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
	Username     string `json:"username,omitempty"`
	Role         string `json:"role,omitempty"`
}

// RefreshRequest is the body sent to /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshData is the payload inside a successful /auth/refresh envelope.
type RefreshData struct {
	Token string `json:"token"`
}
