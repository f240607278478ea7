package domain

import "time"

// Token types carried in the JWT "type" claim and, for persisted tokens,
// stored alongside the row.
const (
	TokenTypeAccess        = "access"
	TokenTypeRefresh       = "refresh"
	TokenTypeResetPassword = "resetPassword"
)

// Token is a persisted refresh or reset-password credential. Access tokens
// are never stored; they are validated by signature and expiry alone.
type Token struct {
	ID          string    `json:"id"`
	Token       string    `json:"token"`
	UserID      string    `json:"user"`
	Type        string    `json:"type"`
	Expires     time.Time `json:"expires"`
	Blacklisted bool      `json:"blacklisted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
