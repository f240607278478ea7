package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/zabilal/sims-api/internal/core/domain"
	"github.com/zabilal/sims-api/internal/core/ports"
)

type authFixture struct {
	users   *stubUserRepo
	tokens  *stubTokenRepo
	mailer  *stubMailer
	limiter *stubLimiter
	svc     *AuthService
}

func newAuthFixture() *authFixture {
	users := newStubUserRepo()
	tokens := newStubTokenRepo()
	mailer := &stubMailer{}
	limiter := &stubLimiter{allow: true}
	tokenSvc := newTestTokenService(tokens, "secret")
	svc := NewAuthService(users, tokens, tokenSvc, mailer, limiter, zerolog.Nop())
	return &authFixture{users: users, tokens: tokens, mailer: mailer, limiter: limiter, svc: svc}
}

func (f *authFixture) register(t *testing.T, email, password string) *domain.User {
	t.Helper()
	user, _, err := f.svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  password,
		SchoolID:  "tenant_1",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return user
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	f := newAuthFixture()

	user, tokens, err := f.svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "password1",
		SchoolID:  "tenant_1",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	stored, err := f.users.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("stored user not found: %v", err)
	}
	if stored.Password == "password1" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if stored.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %s", stored.Role)
	}
	if tokens.Access.Token == "" || tokens.Refresh.Token == "" {
		t.Fatalf("expected token pair on registration")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "dup@example.com", "password1")

	_, _, err := f.svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Eve",
		LastName:  "Example",
		Email:     "dup@example.com",
		Password:  "password2",
	})
	if err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Register_EmailCaseInsensitive(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "Ada@Example.com", "password1")

	// A case variant of an existing address is the same account.
	_, _, err := f.svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Eve",
		LastName:  "Example",
		Email:     "ada@example.com",
		Password:  "password2",
	})
	if err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken for case variant, got %v", err)
	}
}

func TestAuthService_Login_EmailCaseInsensitive(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "Ada@Example.com", "password1")

	user, _, err := f.svc.Login(context.Background(), "ada@example.com", "password1")
	if err != nil {
		t.Fatalf("Login with lowercased email failed: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("expected stored email lowercased, got %q", user.Email)
	}

	if _, _, err := f.svc.Login(context.Background(), "ADA@EXAMPLE.COM", "password1"); err != nil {
		t.Fatalf("Login with uppercased email failed: %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "ada@example.com", "password1")

	user, tokens, err := f.svc.Login(context.Background(), "ada@example.com", "password1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	now := time.Now()
	if tokens.Access.Token == "" || !tokens.Access.Expires.After(now) {
		t.Fatalf("expected access token with future expiry")
	}
	if tokens.Refresh.Token == "" || !tokens.Refresh.Expires.After(now) {
		t.Fatalf("expected refresh token with future expiry")
	}
}

func TestAuthService_Login_ConstantErrorShape(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "ada@example.com", "password1")

	_, _, unknownErr := f.svc.Login(context.Background(), "ghost@example.com", "password1")
	_, _, wrongPwErr := f.svc.Login(context.Background(), "ada@example.com", "wrongpass1")

	if unknownErr != domain.ErrIncorrectCredentials {
		t.Fatalf("unknown email: expected ErrIncorrectCredentials, got %v", unknownErr)
	}
	if wrongPwErr != domain.ErrIncorrectCredentials {
		t.Fatalf("wrong password: expected ErrIncorrectCredentials, got %v", wrongPwErr)
	}
	if unknownErr.Error() != wrongPwErr.Error() {
		t.Fatalf("error shapes differ: %q vs %q", unknownErr, wrongPwErr)
	}
}

func TestAuthService_Logout_StrictConsumption(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "ada@example.com", "password1")

	_, tokens, err := f.svc.Login(context.Background(), "ada@example.com", "password1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := f.svc.Logout(context.Background(), tokens.Refresh.Token); err != nil {
		t.Fatalf("first logout failed: %v", err)
	}
	if err := f.svc.Logout(context.Background(), tokens.Refresh.Token); err != domain.ErrTokenNotFound {
		t.Fatalf("second logout: expected ErrTokenNotFound, got %v", err)
	}
}

func TestAuthService_RefreshTokens_RotatesChain(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "ada@example.com", "password1")

	_, tokens, err := f.svc.Login(context.Background(), "ada@example.com", "password1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	// registration + login each persisted one refresh token
	if n := f.tokens.count(domain.TokenTypeRefresh); n != 2 {
		t.Fatalf("expected 2 refresh rows before rotation, got %d", n)
	}

	rotated, err := f.svc.RefreshTokens(context.Background(), tokens.Refresh.Token)
	if err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}
	if rotated.Refresh.Token == tokens.Refresh.Token {
		t.Fatalf("expected a new refresh token")
	}
	if n := f.tokens.count(domain.TokenTypeRefresh); n != 2 {
		t.Fatalf("rotation must keep one active refresh per chain, got %d rows", n)
	}

	// The old token is consumed: a second rotation with it must fail.
	if _, err := f.svc.RefreshTokens(context.Background(), tokens.Refresh.Token); err != domain.ErrInvalidToken {
		t.Fatalf("replayed refresh: expected ErrInvalidToken, got %v", err)
	}

	// The rotated token still works.
	if _, err := f.svc.RefreshTokens(context.Background(), rotated.Refresh.Token); err != nil {
		t.Fatalf("rotated token refresh failed: %v", err)
	}
}

func TestAuthService_RefreshTokens_ForgedToken(t *testing.T) {
	f := newAuthFixture()
	user := f.register(t, "ada@example.com", "password1")

	forger := newTestTokenService(newStubTokenRepo(), "attacker-secret")
	forged, err := forger.Issue(user.ID, time.Now().Add(24*time.Hour), domain.TokenTypeRefresh)
	if err != nil {
		t.Fatalf("issue forged token: %v", err)
	}

	if _, err := f.svc.RefreshTokens(context.Background(), forged); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for forged token, got %v", err)
	}
}

func TestAuthService_RefreshTokens_DeletedUser(t *testing.T) {
	f := newAuthFixture()
	user := f.register(t, "ada@example.com", "password1")

	_, tokens, err := f.svc.Login(context.Background(), "ada@example.com", "password1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := f.users.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := f.svc.RefreshTokens(context.Background(), tokens.Refresh.Token); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken after user deletion, got %v", err)
	}
}

func TestAuthService_RefreshTokens_AccessTokenRejected(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "ada@example.com", "password1")

	_, tokens, err := f.svc.Login(context.Background(), "ada@example.com", "password1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := f.svc.RefreshTokens(context.Background(), tokens.Access.Token); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for access token, got %v", err)
	}
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	f := newAuthFixture()
	if err := f.svc.ForgotPassword(context.Background(), "ghost@example.com"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(f.mailer.resets) != 0 {
		t.Fatalf("no email must be sent for unknown accounts")
	}
}

func TestAuthService_ForgotPassword_SendsToken(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "ada@example.com", "password1")

	if err := f.svc.ForgotPassword(context.Background(), "ada@example.com"); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	if len(f.mailer.resets) != 1 || !strings.HasPrefix(f.mailer.resets[0], "ada@example.com|") {
		t.Fatalf("unexpected reset mail calls: %+v", f.mailer.resets)
	}
	if n := f.tokens.count(domain.TokenTypeResetPassword); n != 1 {
		t.Fatalf("expected 1 persisted reset token, got %d", n)
	}
}

func TestAuthService_ForgotPassword_Limited(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "ada@example.com", "password1")
	f.limiter.allow = false

	if err := f.svc.ForgotPassword(context.Background(), "ada@example.com"); err != domain.ErrResetAlreadyRequested {
		t.Fatalf("expected ErrResetAlreadyRequested, got %v", err)
	}
	if len(f.mailer.resets) != 0 {
		t.Fatalf("limited request must not send email")
	}
}

func TestAuthService_ResetPassword_SingleUse(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "ada@example.com", "password1")

	if err := f.svc.ForgotPassword(context.Background(), "ada@example.com"); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	reset := strings.SplitN(f.mailer.resets[0], "|", 2)[1]

	if err := f.svc.ResetPassword(context.Background(), reset, "newpassword1"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}

	// New password works, old one does not.
	if _, _, err := f.svc.Login(context.Background(), "ada@example.com", "newpassword1"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, err := f.svc.Login(context.Background(), "ada@example.com", "password1"); err != domain.ErrIncorrectCredentials {
		t.Fatalf("old password still accepted: %v", err)
	}

	// The token is consumed and every reset row for the user purged.
	if err := f.svc.ResetPassword(context.Background(), reset, "anotherpass1"); err != domain.ErrInvalidToken {
		t.Fatalf("reused reset token: expected ErrInvalidToken, got %v", err)
	}
	if n := f.tokens.count(domain.TokenTypeResetPassword); n != 0 {
		t.Fatalf("expected reset tokens purged, found %d", n)
	}
}

func TestAuthService_ResetPassword_WrongType(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "ada@example.com", "password1")

	_, tokens, err := f.svc.Login(context.Background(), "ada@example.com", "password1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// A refresh token must not pass as a reset token even though its
	// signature is valid.
	if err := f.svc.ResetPassword(context.Background(), tokens.Refresh.Token, "newpassword1"); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong type, got %v", err)
	}
}
