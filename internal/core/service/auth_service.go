package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/zabilal/sims-api/internal/core/domain"
	"github.com/zabilal/sims-api/internal/core/ports"
)

// ResetRequestLimiter throttles forgot-password requests per email (Redis).
type ResetRequestLimiter interface {
	// Allow reports whether a reset may be requested for email right now and
	// records the attempt.
	Allow(ctx context.Context, email string) (bool, error)
}

// AuthService orchestrates login, logout, token rotation, and password reset.
type AuthService struct {
	users    ports.UserRepository
	tokens   ports.TokenRepository
	tokenSvc ports.TokenService
	mailer   ports.Mailer
	limiter  ResetRequestLimiter
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenRepository,
	tokenSvc ports.TokenService,
	mailer ports.Mailer,
	limiter ResetRequestLimiter,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		tokenSvc: tokenSvc,
		mailer:   mailer,
		limiter:  limiter,
		log:      log,
	}
}

// Register creates a self-service user account and returns it with a fresh
// token pair.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, *ports.AuthTokens, error) {
	in.Email = normalizeEmail(in.Email)

	taken, err := s.users.IsEmailTaken(ctx, in.Email, "")
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, domain.ErrEmailTaken
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  hash,
		Role:      domain.RoleUser,
		SchoolID:  in.SchoolID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, nil, err
	}

	tokens, err := s.tokenSvc.GenerateAuthTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("school_id", user.SchoolID).Msg("user registered")
	return user, tokens, nil
}

// Login checks credentials and issues a token pair. Unknown email and wrong
// password produce the identical error so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *ports.AuthTokens, error) {
	email = normalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrIncorrectCredentials
		}
		return nil, nil, err
	}
	if !passwordMatches(user.Password, password) {
		return nil, nil, domain.ErrIncorrectCredentials
	}

	tokens, err := s.tokenSvc.GenerateAuthTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Logout consumes the persisted refresh token. A second logout with the same
// string fails with domain.ErrTokenNotFound; this strict contract is
// deliberate.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	row, err := s.tokens.FindActive(ctx, refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		return err
	}
	return s.tokens.Delete(ctx, row.ID)
}

// RefreshTokens rotates a refresh token: the old persisted row is deleted
// and a new access/refresh pair issued, keeping exactly one active refresh
// token per chain. Every failure is domain.ErrInvalidToken — missing,
// blacklisted, mismatched, and deleted-user cases are indistinguishable to
// the caller.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*ports.AuthTokens, error) {
	claims, err := s.tokenSvc.Verify(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	if claims.Type != domain.TokenTypeRefresh {
		return nil, domain.ErrInvalidToken
	}

	row, err := s.tokens.FindActive(ctx, refreshToken, domain.TokenTypeRefresh)
	if err != nil || row.UserID != claims.Subject {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	if err := s.tokens.Delete(ctx, row.ID); err != nil {
		return nil, err
	}
	return s.tokenSvc.GenerateAuthTokens(ctx, user)
}

// ForgotPassword issues a single-use reset token and hands it to the mailer.
// Email delivery is best-effort; a delivery failure never reaches the caller.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("reset limiter unavailable, proceeding")
		} else if !allowed {
			return domain.ErrResetAlreadyRequested
		}
	}

	reset, err := s.tokenSvc.GenerateResetPasswordToken(ctx, user)
	if err != nil {
		return err
	}

	s.mailer.SendResetPasswordEmail(user.FirstName, user.Email, reset)
	return nil
}

// ResetPassword consumes a reset token and stores the rehashed password.
// All outstanding reset tokens of the user are invalidated afterwards.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.tokenSvc.Verify(resetToken)
	if err != nil {
		return domain.ErrInvalidToken
	}
	if claims.Type != domain.TokenTypeResetPassword {
		return domain.ErrInvalidToken
	}

	if _, err := s.tokens.FindActive(ctx, resetToken, domain.TokenTypeResetPassword); err != nil {
		return domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return domain.ErrInvalidToken
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hash
	user.UpdatedAt = time.Now().UTC()
	if _, err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if err := s.tokens.DeleteAllForUser(ctx, user.ID, domain.TokenTypeResetPassword); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to purge reset tokens")
		return err
	}
	return nil
}
