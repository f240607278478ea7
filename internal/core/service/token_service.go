package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zabilal/sims-api/internal/core/domain"
	"github.com/zabilal/sims-api/internal/core/ports"
)

const (
	defaultAccessTTL  = 30 * time.Minute
	defaultRefreshTTL = 30 * 24 * time.Hour
	defaultResetTTL   = 10 * time.Minute
)

// TokenService issues and verifies HS256-signed JWTs and persists the
// refresh/reset rows that can be revoked or consumed.
type TokenService struct {
	tokens     ports.TokenRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
	log        zerolog.Logger
}

func NewTokenService(tokens ports.TokenRepository, secret string, accessTTL, refreshTTL, resetTTL time.Duration, log zerolog.Logger) *TokenService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	if resetTTL <= 0 {
		resetTTL = defaultResetTTL
	}
	return &TokenService{
		tokens:     tokens,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
		log:        log,
	}
}

// Issue signs a self-contained token carrying subject, issued-at, expiry,
// type, and a random token id. The jti keeps two tokens with identical
// subject and expiry from signing to the same string, so a rotation always
// yields a new credential. Nothing is persisted here.
func (s *TokenService) Issue(subjectID string, expires time.Time, tokenType string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subjectID,
		"iat":  time.Now().Unix(),
		"exp":  expires.Unix(),
		"type": tokenType,
		"jti":  uuid.NewString(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates signature and expiry and decodes the claims. Every
// failure mode collapses into domain.ErrInvalidToken.
func (s *TokenService) Verify(token string) (*ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	tokenType, _ := claims["type"].(string)
	exp, err := claims.GetExpirationTime()
	if sub == "" || tokenType == "" || err != nil || exp == nil {
		return nil, domain.ErrInvalidToken
	}

	return &ports.TokenClaims{
		Subject: sub,
		Type:    tokenType,
		Expires: exp.Time,
	}, nil
}

// GenerateAuthTokens returns a fresh access/refresh pair for user. The
// refresh token is persisted as an active row; the access token is not.
func (s *TokenService) GenerateAuthTokens(ctx context.Context, user *domain.User) (*ports.AuthTokens, error) {
	now := time.Now().UTC()

	accessExpires := now.Add(s.accessTTL)
	access, err := s.Issue(user.ID, accessExpires, domain.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	refreshExpires := now.Add(s.refreshTTL)
	refresh, err := s.Issue(user.ID, refreshExpires, domain.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	if _, err := s.saveToken(ctx, refresh, user.ID, refreshExpires, domain.TokenTypeRefresh); err != nil {
		return nil, err
	}

	return &ports.AuthTokens{
		Access:  ports.TokenDetail{Token: access, Expires: accessExpires},
		Refresh: ports.TokenDetail{Token: refresh, Expires: refreshExpires},
	}, nil
}

// GenerateResetPasswordToken issues and persists a single-use reset token
// for user.
func (s *TokenService) GenerateResetPasswordToken(ctx context.Context, user *domain.User) (string, error) {
	expires := time.Now().UTC().Add(s.resetTTL)
	reset, err := s.Issue(user.ID, expires, domain.TokenTypeResetPassword)
	if err != nil {
		return "", err
	}
	if _, err := s.saveToken(ctx, reset, user.ID, expires, domain.TokenTypeResetPassword); err != nil {
		return "", err
	}
	return reset, nil
}

func (s *TokenService) saveToken(ctx context.Context, token, userID string, expires time.Time, tokenType string) (*domain.Token, error) {
	now := time.Now().UTC()
	saved, err := s.tokens.Save(ctx, &domain.Token{
		Token:     token,
		UserID:    userID,
		Type:      tokenType,
		Expires:   expires,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.log.Error().Err(err).Str("type", tokenType).Msg("failed to persist token")
		return nil, fmt.Errorf("save token: %w", err)
	}
	return saved, nil
}
