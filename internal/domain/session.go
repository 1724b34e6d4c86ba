package domain

import "time"

// Session is a server-side session row. The token is the primary key and
// is what travels in the sessionID cookie.
type Session struct {
	Token     string    `json:"token"`
	Payload   []byte    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserSession associates a user with their single live session.
// Both columns are unique, so at most one association can exist per user
// and per session.
type UserSession struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	SessionToken string `json:"session_token"`
}
