package ports

import (
	"context"
	"time"

	"github.com/zabilal/sims-api/internal/core/domain"
)

// TokenClaims is the decoded payload of a verified JWT.
type TokenClaims struct {
	Subject string
	Type    string
	Expires time.Time
}

// TokenDetail is one issued token plus its expiry, as returned to clients.
type TokenDetail struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// AuthTokens is the access/refresh pair returned by register, login, and
// refresh.
type AuthTokens struct {
	Access  TokenDetail `json:"access"`
	Refresh TokenDetail `json:"refresh"`
}

// TokenService issues and verifies signed tokens and manages the persisted
// refresh/reset rows backing them.
type TokenService interface {
	// Issue signs a self-contained token; no persistence happens here.
	Issue(subjectID string, expires time.Time, tokenType string) (string, error)
	// Verify checks signature and expiry, failing with domain.ErrInvalidToken.
	Verify(token string) (*TokenClaims, error)
	// GenerateAuthTokens issues an access token and a persisted refresh token.
	GenerateAuthTokens(ctx context.Context, user *domain.User) (*AuthTokens, error)
	// GenerateResetPasswordToken issues and persists a single-use reset token.
	GenerateResetPasswordToken(ctx context.Context, user *domain.User) (string, error)
}

// RegisterInput carries a self-service registration request.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	SchoolID  string
}

// AuthService orchestrates the credential and token lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, *AuthTokens, error)
	Login(ctx context.Context, email, password string) (*domain.User, *AuthTokens, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}
